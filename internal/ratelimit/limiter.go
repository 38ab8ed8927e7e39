package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		BurstSize:         20,
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	pinned   bool // set through SetLimit; never pruned
}

// KeyedLimiter hands out one token bucket per key (a provider name or a
// client address), creating buckets on first use.
type KeyedLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	defaults Config
	now      func() time.Time
}

func NewKeyedLimiter(config Config) *KeyedLimiter {
	return &KeyedLimiter{
		buckets:  make(map[string]*bucket),
		defaults: config,
		now:      time.Now,
	}
}

func NewKeyedLimiterWithDefaults() *KeyedLimiter {
	return NewKeyedLimiter(DefaultConfig())
}

func (k *KeyedLimiter) GetLimiter(key string) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(k.defaults.RequestsPerSecond), k.defaults.BurstSize)}
		k.buckets[key] = b
	}
	b.lastSeen = k.now()
	return b.limiter
}

// SetLimit overrides the bucket for a single key.
func (k *KeyedLimiter) SetLimit(key string, rps float64, burst int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	k.buckets[key] = &bucket{
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		lastSeen: k.now(),
		pinned:   true,
	}
}

// Wait blocks until key may proceed or ctx is done.
func (k *KeyedLimiter) Wait(ctx context.Context, key string) error {
	return k.GetLimiter(key).Wait(ctx)
}

// Allow reports whether key may proceed now without waiting.
func (k *KeyedLimiter) Allow(key string) bool {
	return k.GetLimiter(key).Allow()
}

func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// Prune drops buckets unused for longer than idle and returns how many
// were removed.
func (k *KeyedLimiter) Prune(idle time.Duration) int {
	k.mu.Lock()
	defer k.mu.Unlock()

	cutoff := k.now().Add(-idle)
	removed := 0
	for key, b := range k.buckets {
		if !b.pinned && b.lastSeen.Before(cutoff) {
			delete(k.buckets, key)
			removed++
		}
	}
	return removed
}

// RunJanitor prunes idle buckets every interval until ctx is done.
func (k *KeyedLimiter) RunJanitor(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.Prune(idle)
		}
	}
}
