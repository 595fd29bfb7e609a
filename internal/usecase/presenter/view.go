package presenter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/kailas-cloud/segscope/internal/domain/search/result"
)

// AbsoluteTimeLayout is used for the hover title of relative timestamps.
const AbsoluteTimeLayout = "01/02/06 15:04:05"

// Entry is one rendered result.
type Entry struct {
	Index      int
	Caption    string
	Similarity string
	Preview    string
	Text       string
	Record     result.Record
	Expanded   bool
}

// Key returns a stable identifier for the entry, falling back to its index
// when the backend sent no record.
func (e Entry) Key() string {
	if e.Record.SegmentID != "" {
		return e.Record.SegmentID
	}
	return fmt.Sprintf("idx-%d", e.Index)
}

// View is everything needed to render the results panel.
type View struct {
	// Empty is set when there are neither results nor metadata; nothing is rendered.
	Empty bool

	HasMetrics bool
	Metrics    Metrics
	// CompletedRelative is e.g. "3 minutes ago"; CompletedTitle is the absolute time.
	CompletedRelative string
	CompletedTitle    string

	Entries     []Entry
	AllExpanded bool

	SearchQuery string
	RAGQuery    string
	Answer      string
}

// View renders the current state.
func (s *State) View() View {
	if s.resp == nil {
		return View{Empty: true}
	}

	data := &s.resp.Data
	metrics, hasMetrics := ComputeMetrics(s.resp.Meta, data, s.cfg.Rates)
	if len(data.Results) == 0 && !hasMetrics {
		return View{Empty: true}
	}

	v := View{
		HasMetrics:  hasMetrics,
		Metrics:     metrics,
		Entries:     make([]Entry, len(data.Results)),
		SearchQuery: data.SearchQuery,
		RAGQuery:    data.RAGQuery,
	}
	if data.HasAnswer() {
		v.Answer = data.Answer
	}
	if hasMetrics && !metrics.Completed.IsZero() {
		v.CompletedRelative = humanize.RelTime(metrics.Completed, s.cfg.Now(), "ago", "from now")
		v.CompletedTitle = metrics.Completed.Local().Format(AbsoluteTimeLayout)
	}

	for i, item := range data.Results {
		v.Entries[i] = Entry{
			Index:      i,
			Caption:    CleanCaption(item.Caption),
			Similarity: FormatSimilarity(item.Similarity),
			Preview:    Truncate(item.Text, s.cfg.PreviewRunes),
			Text:       item.Text,
			Record:     item.Record,
			Expanded:   s.IsExpanded(i),
		}
	}
	v.AllExpanded = len(v.Entries) > 0 && len(s.expanded) == len(v.Entries)

	return v
}

// Summary is the one-line metrics text shown above the list.
func (m Metrics) Summary() string {
	return fmt.Sprintf("Completed: %s | %s sec | %d results | in: %d tokens, %s cents | out: %d tokens, %s cents",
		m.Completed.UTC().Format(time.RFC3339Nano),
		FormatSeconds(m.Elapsed),
		m.Results,
		m.PromptTokens, FormatCost(m.PromptCost),
		m.AnswerTokens, FormatCost(m.AnswerCost),
	)
}

// FormatSimilarity formats a similarity score with exactly two decimals.
func FormatSimilarity(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// FormatSeconds formats a duration as seconds with three decimals.
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// FormatCost formats a cost with four decimals.
func FormatCost(c float64) string {
	return fmt.Sprintf("%.4f", c)
}

// Truncate shortens text to at most n runes, appending "..." when cut.
func Truncate(text string, n int) string {
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}
	return strings.TrimRight(string(runes[:n]), " \t\n") + "..."
}

var headerMarks = regexp.MustCompile(`(^\s*=\s+)|(\s+=\s*$)`)

// CleanCaption strips wiki-style "= Title =" markers from a caption.
func CleanCaption(caption string) string {
	return headerMarks.ReplaceAllString(caption, "")
}
