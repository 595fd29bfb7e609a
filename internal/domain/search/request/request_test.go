package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/segscope/internal/domain"
	"github.com/kailas-cloud/segscope/internal/domain/search/action"
)

func TestNew_ExplicitValues(t *testing.T) {
	r, err := New(action.RAG, "who wrote it?", 3, 0.5, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Action() != action.RAG {
		t.Errorf("Action() = %q", r.Action())
	}
	if r.Query() != "who wrote it?" {
		t.Errorf("Query() = %q", r.Query())
	}
	if r.AtLeast() != 3 {
		t.Errorf("AtLeast() = %d", r.AtLeast())
	}
	if r.Threshold() != 0.5 {
		t.Errorf("Threshold() = %f", r.Threshold())
	}
	if r.AtMost() != 7 {
		t.Errorf("AtMost() = %d", r.AtMost())
	}
	if r.Inverted() {
		t.Error("Inverted() = true")
	}
}

func TestNew_EmptyActionDefaultsToSearch(t *testing.T) {
	r, err := New("", "q", 1, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Action() != action.Search {
		t.Errorf("Action() = %q, want search", r.Action())
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		act       action.Action
		query     string
		atLeast   int
		threshold float64
		atMost    int
		contains  string
	}{
		{"blank query", action.Search, "   \n", 5, 0.3, 10, "required"},
		{"unknown action", "summarize", "q", 5, 0.3, 10, "unknown action"},
		{"zero at least", action.Search, "q", 0, 0.3, 10, "at least"},
		{"zero at most", action.Search, "q", 5, 0.3, 0, "at most"},
		{"negative threshold", action.Search, "q", 5, -0.1, 10, "threshold"},
		{"threshold above one", action.Search, "q", 5, 1.01, 10, "threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.act, tt.query, tt.atLeast, tt.threshold, tt.atMost)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidQuery) {
				t.Errorf("error = %v, want ErrInvalidQuery", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error = %q, want it to contain %q", err, tt.contains)
			}
		})
	}
}

func TestNew_InvertedBoundsAccepted(t *testing.T) {
	r, err := New(action.Search, "q", 20, 0.3, 5)
	if err != nil {
		t.Fatalf("inverted bounds must be accepted, got %v", err)
	}
	if !r.Inverted() {
		t.Error("Inverted() = false, want true")
	}
}

func TestNew_ThresholdBoundsInclusive(t *testing.T) {
	for _, th := range []float64{0, 1} {
		if _, err := New(action.Search, "q", 1, th, 1); err != nil {
			t.Errorf("threshold %g rejected: %v", th, err)
		}
	}
}

func TestDefault(t *testing.T) {
	r := Default()
	if r.Action() != action.Search {
		t.Errorf("Action() = %q", r.Action())
	}
	if r.AtLeast() != DefaultAtLeast || r.AtMost() != DefaultAtMost || r.Threshold() != DefaultThreshold {
		t.Errorf("Default() = %s", r)
	}
}
