// Package ratelimit implements a fixed-window request quota shared by every
// caller in the process. Windows reset on a fixed interval rather than sliding,
// matching how the platform documents its "N requests per window" limits. The
// known consequence is that bursts straddling a window boundary can reach
// roughly twice the nominal rate.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports the outcome of a quota check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

type window struct {
	start time.Time
	count int
}

// Limiter tracks one fixed counting window per key.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	windows map[string]*window

	now func() time.Time // stubbed in tests
}

// New constructs a limiter allowing max requests per key per window.
func New(windowDur time.Duration, max int) *Limiter {
	return &Limiter{
		window:  windowDur,
		max:     max,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Check consumes one unit of quota for key if available. On denial no quota is
// consumed; Result.ResetAt tells the caller when the current window expires.
// There is no queueing or blocking here: callers decide whether to retry.
func (l *Limiter) Check(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		w = &window{start: now}
		l.windows[key] = w
	}

	if now.Sub(w.start) >= l.window {
		w.start = now
		w.count = 0
	}

	resetAt := w.start.Add(l.window)
	if w.count >= l.max {
		return Result{Allowed: false, Remaining: 0, ResetAt: resetAt}
	}

	w.count++
	return Result{Allowed: true, Remaining: l.max - w.count, ResetAt: resetAt}
}

// Get reports the current quota state for key without consuming anything.
// Calling it never changes the outcome of a subsequent Check.
func (l *Limiter) Get(key string) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.window {
		// Fresh or expired window: full quota, window would start now.
		return Result{Allowed: l.max > 0, Remaining: l.max, ResetAt: now.Add(l.window)}
	}

	remaining := l.max - w.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: remaining > 0, Remaining: remaining, ResetAt: w.start.Add(l.window)}
}
