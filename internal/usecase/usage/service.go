package usage

import (
	"sync"
	"time"

	domusage "github.com/kailas-cloud/segscope/internal/domain/usage"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

// Service accumulates the estimated spend of searches since startup.
// The daily tally rolls over at UTC midnight.
type Service struct {
	now func() time.Time

	mu       sync.Mutex
	dayStart time.Time
	day      domusage.Tally
	total    domusage.Tally
}

// New creates a Service.
func New() *Service {
	return &Service{now: time.Now}
}

// WithClock replaces the clock used for the daily rollover.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Record counts one completed search.
func (s *Service) Record(m presenter.Metrics) {
	cost := m.PromptCost + m.AnswerCost

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()
	s.day = s.day.Add(m.PromptTokens, m.AnswerTokens, cost)
	s.total = s.total.Add(m.PromptTokens, m.AnswerTokens, cost)
}

// GetReport builds a usage report for the given period.
func (s *Service) GetReport(period domusage.Period) domusage.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollover()

	if period == domusage.PeriodDay {
		return domusage.NewReport(period, s.dayStart, s.dayStart.Add(24*time.Hour), s.day)
	}
	return domusage.NewReport(domusage.PeriodTotal, time.Time{}, time.Time{}, s.total)
}

func (s *Service) rollover() {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !today.Equal(s.dayStart) {
		s.dayStart = today
		s.day = domusage.Tally{}
	}
}
