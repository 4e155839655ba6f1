package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(window time.Duration, max int) (*Limiter, *time.Time) {
	l := New(window, max)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestCheck_ExhaustsQuotaWithinWindow(t *testing.T) {
	l, clock := newTestLimiter(10*time.Second, 100)
	start := *clock

	for i := 0; i < 100; i++ {
		res := l.Check("api")
		if !res.Allowed {
			t.Fatalf("call %d: expected allowed", i+1)
		}
		if res.Remaining != 100-(i+1) {
			t.Fatalf("call %d: remaining = %d, want %d", i+1, res.Remaining, 100-(i+1))
		}
	}

	res := l.Check("api")
	if res.Allowed {
		t.Fatal("101st call should be denied")
	}
	if want := start.Add(10 * time.Second); !res.ResetAt.Equal(want) {
		t.Fatalf("ResetAt = %v, want %v", res.ResetAt, want)
	}
}

func TestCheck_DenialDoesNotConsume(t *testing.T) {
	l, clock := newTestLimiter(10*time.Second, 1)

	l.Check("api")
	for i := 0; i < 5; i++ {
		if res := l.Check("api"); res.Allowed {
			t.Fatal("expected denial")
		}
	}

	// Advance past the window; exactly one unit should be available again.
	*clock = clock.Add(10 * time.Second)
	if res := l.Check("api"); !res.Allowed {
		t.Fatal("expected window reset to restore quota")
	}
	if res := l.Check("api"); res.Allowed {
		t.Fatal("denials must not have consumed quota from the new window")
	}
}

func TestCheck_WindowReset(t *testing.T) {
	l, clock := newTestLimiter(10*time.Second, 100)

	for i := 0; i < 101; i++ {
		l.Check("api")
	}

	*clock = clock.Add(10*time.Second + time.Millisecond)
	res := l.Check("api")
	if !res.Allowed {
		t.Fatal("call after ResetAt should succeed")
	}
	if res.Remaining != 99 {
		t.Fatalf("Remaining = %d, want 99", res.Remaining)
	}
	if want := clock.Add(10 * time.Second); !res.ResetAt.Equal(want) {
		t.Fatalf("ResetAt = %v, want %v", res.ResetAt, want)
	}
}

func TestGet_IsPureRead(t *testing.T) {
	l, _ := newTestLimiter(10*time.Second, 2)

	for i := 0; i < 10; i++ {
		l.Get("api")
	}
	if res := l.Check("api"); !res.Allowed || res.Remaining != 1 {
		t.Fatalf("Get must not consume quota: %+v", res)
	}

	before := l.Get("api")
	after := l.Get("api")
	if before != after {
		t.Fatalf("repeated Get diverged: %+v vs %+v", before, after)
	}
}

func TestGet_FreshKeyReportsFullQuota(t *testing.T) {
	l, clock := newTestLimiter(10*time.Second, 5)

	res := l.Get("unused")
	if !res.Allowed || res.Remaining != 5 {
		t.Fatalf("fresh key: %+v", res)
	}
	if want := clock.Add(10 * time.Second); !res.ResetAt.Equal(want) {
		t.Fatalf("ResetAt = %v, want %v", res.ResetAt, want)
	}
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(10*time.Second, 3)

	for i := 0; i < 4; i++ {
		l.Check("a")
	}
	if res := l.Check("a"); res.Allowed {
		t.Fatal("key a should be exhausted")
	}
	if res := l.Check("b"); !res.Allowed || res.Remaining != 2 {
		t.Fatalf("key b affected by key a: %+v", res)
	}
}

func TestCheck_ConcurrentCallersNeverOversubscribe(t *testing.T) {
	l := New(time.Minute, 500)

	var wg sync.WaitGroup
	allowed := make(chan struct{}, 2000)
	for g := 0; g < 20; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if l.Check("api").Allowed {
					allowed <- struct{}{}
				}
			}
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for range allowed {
		count++
	}
	if count != 500 {
		t.Fatalf("allowed %d calls, want exactly 500", count)
	}
}
