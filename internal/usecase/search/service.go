package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segscope/internal/domain"
	"github.com/kailas-cloud/segscope/internal/domain/search/action"
	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	"github.com/kailas-cloud/segscope/internal/domain/search/result"
	"github.com/kailas-cloud/segscope/internal/metrics"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

// Snapshot is a consistent copy of the session for rendering.
type Snapshot struct {
	View presenter.View
	// Loading drives the loading indicator. It may clear before Pending does.
	Loading bool
	// Pending is true while a backend call is outstanding; new submissions are refused.
	Pending bool
	// Err is the failure of the most recent completed search, if any.
	Err error
	// Request holds the last submitted parameters, used to refill the form.
	Request request.Request
}

// Service holds the state of one search page: the latest response, which
// entries are expanded, and whether a search is in flight.
// Only one search is outstanding at a time.
type Service struct {
	searcher       Searcher
	usage          UsageRecorder
	loadingTimeout time.Duration
	logger         *zap.Logger

	mu      sync.Mutex
	state   *presenter.State
	pending bool
	loading bool
	lastErr error
	lastReq request.Request
	done    chan struct{}
}

// New creates a search session service.
func New(searcher Searcher, cfg presenter.Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		searcher: searcher,
		logger:   logger,
		state:    presenter.New(cfg),
		lastReq:  request.Default(),
	}
}

// WithLoadingTimeout bounds how long Submit waits before clearing the loading
// indicator. The backend call itself is never cancelled. Zero waits for the reply.
func (s *Service) WithLoadingTimeout(d time.Duration) *Service {
	s.loadingTimeout = d
	return s
}

// WithUsage records the metrics of every successful search in u.
func (s *Service) WithUsage(u UsageRecorder) *Service {
	s.usage = u
	return s
}

// Submit starts a search and waits for it, at most the loading timeout.
// It returns domain.ErrSearchInProgress if a previous search is pending, and
// the search failure if the call finished unsuccessfully within the wait.
// On failure the previous results stay in place.
func (s *Service) Submit(ctx context.Context, req request.Request) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		metrics.SearchRejectedTotal.Inc()
		return domain.ErrSearchInProgress
	}
	s.pending = true
	s.loading = true
	s.lastReq = req
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	metrics.SearchSubmissionsTotal.WithLabelValues(string(req.Action())).Inc()
	metrics.SearchesInFlight.Inc()

	s.logger.Info("Received query",
		zap.String("action", string(req.Action())),
		zap.String("kind", action.Kind),
		zap.Int("k", req.AtLeast()),
		zap.Float64("threshold", req.Threshold()),
		zap.Int("max", req.AtMost()),
	)
	s.logger.Debug("Query", zap.String("query", req.Query()))
	if req.Inverted() {
		s.logger.Warn("At least exceeds at most; sending as is",
			zap.Int("k", req.AtLeast()),
			zap.Int("max", req.AtMost()),
		)
	}

	// The call outlives both the loading timeout and the caller's cancellation.
	callCtx := context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		resp, err := s.searcher.Do(callCtx, req)
		s.finish(req, resp, err)
	}()

	var timeout <-chan time.Time
	if s.loadingTimeout > 0 {
		timer := time.NewTimer(s.loadingTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case <-done:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.lastErr
	case <-timeout:
		s.stopLoading("loading timeout")
		metrics.SearchLoadingTimeoutsTotal.Inc()
		return nil
	case <-ctx.Done():
		s.stopLoading("caller went away")
		return nil
	}
}

func (s *Service) stopLoading(reason string) {
	s.mu.Lock()
	if s.pending {
		s.loading = false
	}
	s.mu.Unlock()
	s.logger.Info("Search still running, hiding loading indicator", zap.String("reason", reason))
}

func (s *Service) finish(req request.Request, resp *result.Response, err error) {
	metrics.SearchesInFlight.Dec()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = false
	s.loading = false

	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}
	if err != nil {
		metrics.SearchOutcomesTotal.WithLabelValues(string(req.Action()), "error").Inc()
		s.logger.Error("Error fetching results", zap.Error(err))
		s.lastErr = err
		return
	}

	metrics.SearchOutcomesTotal.WithLabelValues(string(req.Action()), "ok").Inc()
	metrics.SearchResultsReturned.Observe(float64(len(resp.Data.Results)))
	s.logger.Info("Search results fetched",
		zap.Int("results", len(resp.Data.Results)),
		zap.Bool("answer", resp.Data.HasAnswer()),
	)
	s.lastErr = nil
	s.state.SetResponse(resp)

	if s.usage != nil {
		if m, ok := s.state.Metrics(); ok {
			s.usage.Record(m)
		}
	}
}

// Wait blocks until the pending search, if any, has finished or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for search: %w", ctx.Err())
	}
}

// Snapshot returns the current session state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		View:    s.state.View(),
		Loading: s.loading,
		Pending: s.pending,
		Err:     s.lastErr,
		Request: s.lastReq,
	}
}

// Toggle flips the expanded state of entry i. It reports whether i exists.
func (s *Service) Toggle(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Toggle(i)
}

// ExpandAll expands every entry.
func (s *Service) ExpandAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ExpandAll()
}

// CollapseAll collapses every entry.
func (s *Service) CollapseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.CollapseAll()
}
