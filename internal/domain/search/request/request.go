package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/segscope/internal/domain"
	"github.com/kailas-cloud/segscope/internal/domain/search/action"
)

// Form defaults, as the backend form model declares them.
const (
	DefaultAtLeast   = 5
	DefaultThreshold = 0.3
	DefaultAtMost    = 10
)

// Request is a validated set of retrieval parameters.
type Request struct {
	act       action.Action
	query     string
	atLeast   int
	threshold float64
	atMost    int
}

// New validates search parameters.
// atLeast > atMost is accepted; see Inverted.
func New(act action.Action, query string, atLeast int, threshold float64, atMost int) (Request, error) {
	if act == "" {
		act = action.Search
	}
	if !act.IsValid() {
		return Request{}, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidQuery, act)
	}
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if atLeast < 1 {
		return Request{}, fmt.Errorf("%w: at least must be >= 1, got %d", domain.ErrInvalidQuery, atLeast)
	}
	if atMost < 1 {
		return Request{}, fmt.Errorf("%w: at most must be >= 1, got %d", domain.ErrInvalidQuery, atMost)
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("%w: threshold must be between 0 and 1, got %g", domain.ErrInvalidQuery, threshold)
	}

	return Request{
		act:       act,
		query:     query,
		atLeast:   atLeast,
		threshold: threshold,
		atMost:    atMost,
	}, nil
}

// Default returns the parameters the form starts with (no query).
func Default() Request {
	return Request{
		act:       action.Search,
		atLeast:   DefaultAtLeast,
		threshold: DefaultThreshold,
		atMost:    DefaultAtMost,
	}
}

// Action returns the requested backend mode.
func (r *Request) Action() action.Action { return r.act }

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// AtLeast returns the minimum number of results (sent as k).
func (r *Request) AtLeast() int { return r.atLeast }

// Threshold returns the similarity threshold.
func (r *Request) Threshold() float64 { return r.threshold }

// AtMost returns the maximum number of results (sent as max).
func (r *Request) AtMost() int { return r.atMost }

// Inverted reports whether the lower bound exceeds the upper bound.
func (r *Request) Inverted() bool { return r.atLeast > r.atMost }

func (r Request) String() string {
	return fmt.Sprintf("Request(action=%s, kind=%s, query=%q, k=%d, threshold=%g, max=%d)",
		r.act, action.Kind, r.query, r.atLeast, r.threshold, r.atMost)
}
