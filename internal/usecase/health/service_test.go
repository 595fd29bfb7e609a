package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockPinger struct {
	err         error
	hasDeadline bool
	remaining   time.Duration
}

func (m *mockPinger) Ping(ctx context.Context) error {
	var deadline time.Time
	deadline, m.hasDeadline = ctx.Deadline()
	if m.hasDeadline {
		m.remaining = time.Until(deadline)
	}
	return m.err
}

// --- Tests ---

func TestCheck_BackendReachable(t *testing.T) {
	p := &mockPinger{}
	r := New(p).Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["backend"] != CheckOK {
		t.Errorf("expected backend %q, got %q", CheckOK, r.Checks["backend"])
	}
	if r.Checks["ui"] != CheckOK {
		t.Errorf("expected ui %q, got %q", CheckOK, r.Checks["ui"])
	}
	if !p.hasDeadline {
		t.Error("ping must be bounded by a deadline")
	}
}

func TestCheck_BackendDown(t *testing.T) {
	r := New(&mockPinger{err: errors.New("conn refused")}).Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["backend"] != CheckError {
		t.Errorf("expected backend %q, got %q", CheckError, r.Checks["backend"])
	}
}

func TestCheck_PingDeadline(t *testing.T) {
	tests := []struct {
		name    string
		parent  time.Duration // 0 means no caller deadline
		atLeast time.Duration
		atMost  time.Duration
	}{
		{"default two seconds", 0, time.Second, 2 * time.Second},
		{"longer caller deadline", time.Minute, time.Second, 2 * time.Second},
		{"shorter caller deadline wins", 300 * time.Millisecond, 0, 300 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.parent > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.parent)
				defer cancel()
			}

			p := &mockPinger{}
			New(p).Check(ctx)

			if !p.hasDeadline {
				t.Fatal("ping must be bounded by a deadline")
			}
			if p.remaining <= tt.atLeast || p.remaining > tt.atMost {
				t.Errorf("remaining = %v, want in (%v, %v]", p.remaining, tt.atLeast, tt.atMost)
			}
		})
	}
}
