package segscope

import (
	"github.com/kailas-cloud/segscope/internal/domain/search/action"
	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	"github.com/kailas-cloud/segscope/internal/domain/search/result"
)

// Action selects plain search or retrieval-augmented generation.
type Action = action.Action

// Action constants.
const (
	ActionSearch = action.Search
	ActionRAG    = action.RAG
)

// Kind is the element kind every request asks for.
const Kind = action.Kind

// Params is a validated set of retrieval parameters.
type Params = request.Request

// Response types, decoded from the service's JSON.
type (
	Response  = result.Response
	Meta      = result.Meta
	Data      = result.Data
	Item      = result.Item
	Record    = result.Record
	Timestamp = result.Timestamp
)

// NewParams validates retrieval parameters.
func NewParams(act Action, query string, atLeast int, threshold float64, atMost int) (Params, error) {
	return request.New(act, query, atLeast, threshold, atMost) //nolint:wrapcheck // domain error is the API
}

// Body is the JSON envelope posted to the combined endpoint.
type Body struct {
	ID        string  `json:"id"`
	Action    Action  `json:"action"`
	Kind      string  `json:"kind"`
	Query     string  `json:"query"`
	K         int     `json:"k"`
	Threshold float64 `json:"threshold"`
	Max       int     `json:"max"`
}

// requestID is the id every request carries; the service echoes it back.
const requestID = "1"

// BuildBody maps parameters onto the request envelope.
func BuildBody(p Params) Body {
	return Body{
		ID:        requestID,
		Action:    p.Action(),
		Kind:      Kind,
		Query:     p.Query(),
		K:         p.AtLeast(),
		Threshold: p.Threshold(),
		Max:       p.AtMost(),
	}
}
