package usage

import (
	"fmt"
	"time"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodTotal Period = "total"
)

// ParsePeriod validates a period name. Empty means PeriodTotal.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodTotal:
		return PeriodTotal, nil
	case PeriodDay:
		return PeriodDay, nil
	default:
		return "", fmt.Errorf("unknown usage period %q", s)
	}
}

// Tally is the estimated token spend of completed searches.
type Tally struct {
	searches     int
	promptTokens int
	answerTokens int
	cost         float64
}

// NewTally creates a Tally snapshot. cost is in the same unit as the rates it came from.
func NewTally(searches, promptTokens, answerTokens int, cost float64) Tally {
	return Tally{
		searches:     searches,
		promptTokens: promptTokens,
		answerTokens: answerTokens,
		cost:         cost,
	}
}

// Add returns the tally with one more search folded in.
func (t Tally) Add(promptTokens, answerTokens int, cost float64) Tally {
	return Tally{
		searches:     t.searches + 1,
		promptTokens: t.promptTokens + promptTokens,
		answerTokens: t.answerTokens + answerTokens,
		cost:         t.cost + cost,
	}
}

// Searches returns the number of searches counted.
func (t Tally) Searches() int { return t.searches }

// PromptTokens returns the estimated prompt tokens.
func (t Tally) PromptTokens() int { return t.promptTokens }

// AnswerTokens returns the estimated answer tokens.
func (t Tally) AnswerTokens() int { return t.answerTokens }

// Cost returns the estimated cost.
func (t Tally) Cost() float64 { return t.cost }

// Report is the estimated spend for a period.
type Report struct {
	period      Period
	periodStart time.Time
	periodEnd   time.Time
	tally       Tally
}

// NewReport creates a usage report. start and end are zero for PeriodTotal.
func NewReport(period Period, start, end time.Time, t Tally) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		tally:       t,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns the period start, or the zero time.
func (r *Report) PeriodStart() time.Time { return r.periodStart }

// PeriodEnd returns the period end, or the zero time.
func (r *Report) PeriodEnd() time.Time { return r.periodEnd }

// Tally returns the counted spend.
func (r *Report) Tally() Tally { return r.tally }
