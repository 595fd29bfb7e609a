package action

import "fmt"

// Action selects what the backend does with a query.
type Action string

// Action constants.
const (
	// Search returns ranked segments only.
	Search Action = "search"
	// RAG additionally returns a generated answer built from the segments.
	RAG Action = "rag"
)

// Kind is the element kind requested from the backend. This client only
// asks for segments.
const Kind = "segment"

// IsValid checks if the action is one of the supported values.
func (a Action) IsValid() bool {
	return a == Search || a == RAG
}

// Parse converts a raw string into an Action. Empty input means Search.
func Parse(s string) (Action, error) {
	if s == "" {
		return Search, nil
	}
	a := Action(s)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}
