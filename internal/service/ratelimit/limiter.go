package ratelimit

import (
    "math"
    "sync"
    "time"
)

type bucket struct {
    tokens float64
    last   time.Time
}

// Limiter is a per-key token bucket. Every key starts full.
type Limiter struct {
    mu         sync.Mutex
    m          map[string]*bucket
    capacity   float64
    refillRate float64 // tokens per second
    now        func() time.Time
}

func New(capacity, refillPerSec float64) *Limiter {
    if capacity < 1 {
        capacity = 1
    }
    return &Limiter{
        m:          make(map[string]*bucket),
        capacity:   capacity,
        refillRate: refillPerSec,
        now:        time.Now,
    }
}

// WithClock replaces the time source, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
    l.now = now
    return l
}

// Allow consumes one token for key. When none is available it reports how
// long until one will be.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
    now := l.now()
    l.mu.Lock()
    defer l.mu.Unlock()

    b := l.refill(key, now)
    if b.tokens >= 1 {
        b.tokens--
        return true, 0
    }
    if l.refillRate <= 0 {
        return false, time.Duration(math.MaxInt64)
    }
    wait := (1 - b.tokens) / l.refillRate
    return false, time.Duration(math.Ceil(wait * float64(time.Second)))
}

// Sweep drops buckets that have refilled completely, which are
// indistinguishable from new ones.
func (l *Limiter) Sweep() int {
    now := l.now()
    l.mu.Lock()
    defer l.mu.Unlock()
    n := 0
    for k := range l.m {
        if b := l.refill(k, now); b.tokens >= l.capacity {
            delete(l.m, k)
            n++
        }
    }
    return n
}

// Len is the number of tracked keys.
func (l *Limiter) Len() int {
    l.mu.Lock()
    defer l.mu.Unlock()
    return len(l.m)
}

func (l *Limiter) refill(key string, now time.Time) *bucket {
    b, ok := l.m[key]
    if !ok {
        b = &bucket{tokens: l.capacity, last: now}
        l.m[key] = b
        return b
    }
    if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
        b.tokens = math.Min(l.capacity, b.tokens+elapsed*l.refillRate)
        b.last = now
    }
    return b
}
