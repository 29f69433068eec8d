package ratelimit

import (
	"testing"
	"time"
)

func TestWindowAt(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 7, 400_000_000, time.UTC)
	w := WindowAt(now, 5)

	if !w.Start.Equal(time.Date(2024, 5, 1, 12, 0, 7, 0, time.UTC)) {
		t.Errorf("Start = %v, want truncated to the second", w.Start)
	}
	if w.Count != 0 {
		t.Errorf("Count = %d, want 0", w.Count)
	}
	if got, want := w.Key(), "wbgw:rate:1714564807"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}

func TestWindow_Exceeded(t *testing.T) {
	tests := []struct {
		name          string
		count         int64
		limit         int
		wantExceeded  bool
		wantRemaining int64
	}{
		{"empty", 0, 3, false, 3},
		{"below limit", 2, 3, false, 1},
		{"at limit", 3, 3, false, 0},
		{"over limit", 4, 3, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Window{Count: tt.count, Limit: tt.limit}
			if got := w.Exceeded(); got != tt.wantExceeded {
				t.Errorf("Exceeded() = %v, want %v", got, tt.wantExceeded)
			}
			if got := w.Remaining(); got != tt.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}

func TestWindow_ResetIn(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	w := Window{Start: start, Limit: 1}

	if got := w.ResetIn(start.Add(250 * time.Millisecond)); got != 750*time.Millisecond {
		t.Errorf("ResetIn() = %v, want 750ms", got)
	}
	if got := w.ResetIn(start.Add(3 * time.Second)); got != 0 {
		t.Errorf("ResetIn() after window = %v, want 0", got)
	}
}
