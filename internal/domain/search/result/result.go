package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the provenance key of a segment:
// [segment id, document id, segment index, offset, length].
// It is displayed, never interpreted.
type Record struct {
	SegmentID  string
	DocumentID string
	Index      int
	Offset     int
	Length     int
}

// String formats the record the way it is shown in result details.
func (r Record) String() string {
	return fmt.Sprintf("%s / %s #%d @%d+%d", r.SegmentID, r.DocumentID, r.Index, r.Offset, r.Length)
}

// MarshalJSON encodes the record as a 5-element array.
func (r Record) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal([]any{r.SegmentID, r.DocumentID, r.Index, r.Offset, r.Length})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return b, nil
}

// UnmarshalJSON fills the record from an array. Missing or mistyped elements
// stay zero and extra elements are ignored; anything that is not an array
// leaves the record empty.
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = Record{}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil //nolint:nilerr // provenance is display-only
	}

	ids := []*string{&r.SegmentID, &r.DocumentID}
	nums := []*int{&r.Index, &r.Offset, &r.Length}
	for i, raw := range parts {
		switch {
		case i < len(ids):
			*ids[i] = idString(raw)
		case i < len(ids)+len(nums):
			*nums[i-len(ids)] = intValue(raw)
		}
	}
	return nil
}

// idString accepts ids serialized either as strings or as numbers.
func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func intValue(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int(f)
}

// Item is a single ranked segment. Rank is its position in the result list.
type Item struct {
	Caption    string  `json:"caption"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	Record     Record  `json:"record"`
}

// Timestamp is an ISO-8601 time as emitted by the backend. Timestamps
// without a zone are in the host's local time, as the backend writes them.
type Timestamp struct {
	time.Time
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseTimestamp parses an ISO-8601 timestamp. Without a zone it is read in time.Local.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler. Values that are not a
// recognizable timestamp string decode to the zero time, which callers treat
// as unknown.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}

	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil //nolint:nilerr // timing is informational
	}
	if ts, err := ParseTimestamp(s); err == nil {
		*t = ts
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}

// Meta is the envelope metadata the backend attaches to every response.
type Meta struct {
	TextFile  string          `json:"text_file,omitempty"`
	MaxLen    int             `json:"max_len,omitempty"`
	Received  Timestamp       `json:"received"`
	Completed Timestamp       `json:"completed"`
	Duration  json.RawMessage `json:"duration,omitempty"`
}

// Elapsed returns completed minus received.
func (m *Meta) Elapsed() time.Duration {
	if m == nil || m.Received.IsZero() || m.Completed.IsZero() {
		return 0
	}
	return m.Completed.Sub(m.Received.Time)
}

// NotApplicable is what the backend puts in prompt and answer for plain searches.
const NotApplicable = "na"

// Data is the payload of a combined response. The query, prompt and answer
// fields are only meaningful for RAG requests.
type Data struct {
	ID          string `json:"id,omitempty"`
	Action      string `json:"action,omitempty"`
	Results     []Item `json:"results"`
	SearchQuery string `json:"search_query,omitempty"`
	RAGQuery    string `json:"rag_query,omitempty"`
	Prompt      string `json:"prompt,omitempty"`
	Answer      string `json:"answer,omitempty"`
	TotalLength int    `json:"total_length,omitempty"`
}

// HasAnswer reports whether the backend generated an answer.
func (d *Data) HasAnswer() bool {
	a := strings.TrimSpace(d.Answer)
	return a != "" && a != NotApplicable
}

// Response is the decoded combined response.
type Response struct {
	Meta *Meta `json:"meta,omitempty"`
	Data Data  `json:"data"`

	// Raw holds the body exactly as received.
	Raw json.RawMessage `json:"-"`
}
