package usage

import (
	"testing"
	"time"

	domusage "github.com/kailas-cloud/segscope/internal/domain/usage"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func metrics(prompt, answer int) presenter.Metrics {
	rates := presenter.DefaultRates()
	return presenter.Metrics{
		PromptTokens: prompt,
		PromptCost:   presenter.EstimateCost(prompt, rates.Prompt),
		AnswerTokens: answer,
		AnswerCost:   presenter.EstimateCost(answer, rates.Answer),
	}
}

func TestGetReport_Empty(t *testing.T) {
	svc := New()
	r := svc.GetReport(domusage.PeriodTotal)

	if r.Period() != domusage.PeriodTotal {
		t.Errorf("Period() = %q", r.Period())
	}
	if !r.PeriodStart().IsZero() || !r.PeriodEnd().IsZero() {
		t.Error("total report must not have period boundaries")
	}
	if r.Tally().Searches() != 0 {
		t.Errorf("Searches() = %d", r.Tally().Searches())
	}
}

func TestRecord_Accumulates(t *testing.T) {
	svc := New()
	svc.Record(metrics(100, 20))
	svc.Record(metrics(1000, 0))

	report := svc.GetReport(domusage.PeriodTotal)
	tally := report.Tally()
	if tally.Searches() != 2 {
		t.Errorf("Searches() = %d", tally.Searches())
	}
	if tally.PromptTokens() != 1100 || tally.AnswerTokens() != 20 {
		t.Errorf("tokens = %d/%d", tally.PromptTokens(), tally.AnswerTokens())
	}
	// 1100*15/1e6 + 20*60/1e6
	want := 0.0165 + 0.0012
	if d := tally.Cost() - want; d > 1e-12 || d < -1e-12 {
		t.Errorf("Cost() = %v, want %v", tally.Cost(), want)
	}
}

func TestGetReport_DailyRollover(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC)}
	svc := New().WithClock(clock.Now)

	svc.Record(metrics(100, 0))

	day := svc.GetReport(domusage.PeriodDay)
	wantStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	if !day.PeriodStart().Equal(wantStart) {
		t.Errorf("PeriodStart() = %v, want %v", day.PeriodStart(), wantStart)
	}
	if !day.PeriodEnd().Equal(wantStart.Add(24 * time.Hour)) {
		t.Errorf("PeriodEnd() = %v", day.PeriodEnd())
	}
	if day.Tally().Searches() != 1 {
		t.Errorf("day searches = %d", day.Tally().Searches())
	}

	clock.t = clock.t.Add(2 * time.Hour)
	svc.Record(metrics(10, 0))

	dayAfter := svc.GetReport(domusage.PeriodDay)
	if got := dayAfter.Tally().Searches(); got != 1 {
		t.Errorf("day searches after midnight = %d, want 1", got)
	}
	total := svc.GetReport(domusage.PeriodTotal)
	if got := total.Tally().Searches(); got != 2 {
		t.Errorf("total searches = %d, want 2", got)
	}
}
