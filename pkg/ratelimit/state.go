// Package ratelimit implements a Redis-backed outbound request gate shared by
// every gateway replica. Requests are counted in one-second windows; once a
// window is full, callers wait for the next one.
package ratelimit

import (
	"fmt"
	"time"
)

// Redis key layout for window counters.
const (
	// RedisKeyPrefix prefixes every window counter key.
	RedisKeyPrefix = "wbgw:rate:"

	// WindowTTL bounds the lifetime of a window counter. It outlives the
	// window itself so late INCRs from slow replicas still land.
	WindowTTL = 2 * time.Second
)

// DefaultLimit is the default number of upstream requests per second.
const DefaultLimit = 10

// Window is the state of one counting window.
type Window struct {
	// Start is the beginning of the window (second resolution).
	Start time.Time

	// Count is the number of requests admitted so far, including the
	// caller's own increment.
	Count int64

	// Limit is the configured requests-per-second ceiling.
	Limit int
}

// WindowAt returns the empty window containing t.
func WindowAt(t time.Time, limit int) Window {
	return Window{Start: t.Truncate(time.Second), Limit: limit}
}

// Key returns the Redis key for the window.
func (w Window) Key() string {
	return fmt.Sprintf("%s%d", RedisKeyPrefix, w.Start.Unix())
}

// Exceeded returns true if the window has admitted more than Limit requests.
func (w Window) Exceeded() bool {
	return w.Count > int64(w.Limit)
}

// Remaining returns how many more requests the window admits.
// Returns 0 if the window is full.
func (w Window) Remaining() int64 {
	r := int64(w.Limit) - w.Count
	if r < 0 {
		return 0
	}
	return r
}

// ResetIn returns the duration from now until the next window opens.
// Returns 0 if that moment has already passed.
func (w Window) ResetIn(now time.Time) time.Duration {
	d := w.Start.Add(time.Second).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
