package ratelimit

import (
    "testing"
    "time"
)

func TestLimiterBurstThenRefill(t *testing.T) {
    now := time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC)
    l := New(2, 0.5).WithClock(func() time.Time { return now })

    for i := 0; i < 2; i++ {
        if ok, _ := l.Allow("10.0.0.1"); !ok {
            t.Fatalf("request %d should pass within burst", i)
        }
    }
    ok, wait := l.Allow("10.0.0.1")
    if ok {
        t.Fatalf("third request should be limited")
    }
    if wait != 2*time.Second {
        t.Fatalf("expected 2s wait, got %v", wait)
    }
    if ok, _ := l.Allow("10.0.0.2"); !ok {
        t.Fatalf("keys are independent")
    }

    now = now.Add(2 * time.Second)
    if ok, _ := l.Allow("10.0.0.1"); !ok {
        t.Fatalf("token should have refilled")
    }
}

func TestLimiterSweep(t *testing.T) {
    now := time.Date(2025, 2, 27, 12, 0, 0, 0, time.UTC)
    l := New(1, 1).WithClock(func() time.Time { return now })
    l.Allow("a")
    l.Allow("b")
    if l.Len() != 2 {
        t.Fatalf("expected 2 keys")
    }
    if n := l.Sweep(); n != 0 {
        t.Fatalf("drained buckets must be kept, swept %d", n)
    }
    now = now.Add(time.Second)
    if n := l.Sweep(); n != 2 || l.Len() != 0 {
        t.Fatalf("refilled buckets should be swept, got %d", n)
    }
}
