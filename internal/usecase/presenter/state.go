package presenter

import (
	"sort"
	"time"

	"github.com/kailas-cloud/segscope/internal/domain/search/result"
)

// DefaultPreviewRunes is how much of a collapsed segment's text is shown.
const DefaultPreviewRunes = 200

// Config tunes how a response is turned into a view.
type Config struct {
	Rates        Rates
	PreviewRunes int
	// Now is used for relative timestamps. Defaults to time.Now.
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.Rates == (Rates{}) {
		c.Rates = DefaultRates()
	}
	if c.PreviewRunes <= 0 {
		c.PreviewRunes = DefaultPreviewRunes
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// State is the presenter's local state: the latest response and which
// entries are expanded. It is not safe for concurrent use.
type State struct {
	cfg      Config
	resp     *result.Response
	expanded map[int]struct{}
}

// New creates an empty State.
func New(cfg Config) *State {
	cfg.applyDefaults()
	return &State{cfg: cfg, expanded: make(map[int]struct{})}
}

// SetResponse replaces the current response wholesale. Expanded entries are
// always reset, even when the new results equal the old ones.
func (s *State) SetResponse(resp *result.Response) {
	s.resp = resp
	s.expanded = make(map[int]struct{})
}

// Response returns the current response, or nil.
func (s *State) Response() *result.Response { return s.resp }

// Metrics derives the metrics block of the current response. It returns
// false when there is no response or it carried no metadata.
func (s *State) Metrics() (Metrics, bool) {
	if s.resp == nil {
		return Metrics{}, false
	}
	return ComputeMetrics(s.resp.Meta, &s.resp.Data, s.cfg.Rates)
}

// Len returns the number of results currently held.
func (s *State) Len() int {
	if s.resp == nil {
		return 0
	}
	return len(s.resp.Data.Results)
}

// Toggle flips the expanded state of entry i. Out of range indices are ignored.
// It reports whether i was in range.
func (s *State) Toggle(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	if _, ok := s.expanded[i]; ok {
		delete(s.expanded, i)
	} else {
		s.expanded[i] = struct{}{}
	}
	return true
}

// ExpandAll marks every entry 0..n-1 as expanded.
func (s *State) ExpandAll() {
	n := s.Len()
	s.expanded = make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		s.expanded[i] = struct{}{}
	}
}

// CollapseAll clears the expanded set.
func (s *State) CollapseAll() {
	s.expanded = make(map[int]struct{})
}

// IsExpanded reports whether entry i is expanded.
func (s *State) IsExpanded(i int) bool {
	_, ok := s.expanded[i]
	return ok
}

// Expanded returns the expanded indices in ascending order.
func (s *State) Expanded() []int {
	out := make([]int, 0, len(s.expanded))
	for i := range s.expanded {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
