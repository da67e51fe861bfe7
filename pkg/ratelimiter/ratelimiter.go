package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/livroelivro/sebo/pkg/kvstore"
)

// Config defines the token bucket. A zero Capacity disables limiting.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

// Enabled reports whether the config describes a usable bucket.
func (c Config) Enabled() bool {
	return c.Capacity > 0
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of one Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

func (r Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter is zero for allowed requests.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(now), 0)
}

type state struct {
	Tokens     int       `json:"tokens"`
	LastRefill time.Time `json:"lastRefill"`
}

// Bucket is a token bucket whose state lives in a kvstore.Store, so every
// instance sharing a Redis store shares the limits. Updates are serialized
// per process only.
type Bucket struct {
	store  kvstore.Store
	config Config
	now    func() time.Time
	mu     sync.Mutex
}

type Option func(*Bucket)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Bucket) {
		if now != nil {
			b.now = now
		}
	}
}

func NewBucket(store kvstore.Store, config Config, opts ...Option) (*Bucket, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	b := &Bucket{store: store, config: config, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Allow consumes one token for key.
func (b *Bucket) Allow(ctx context.Context, key string) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	st, err := kvstore.GetJSON[state](ctx, b.store, key)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		st = state{Tokens: b.config.Capacity, LastRefill: now}
	case err != nil:
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}

	// Whole intervals only; capped so a long idle period cannot overflow.
	maxIntervals := int64(b.config.Capacity/b.config.RefillRate + 1)
	intervals := int(min(int64(now.Sub(st.LastRefill)/b.config.RefillInterval), maxIntervals))
	if intervals > 0 {
		st.Tokens = min(st.Tokens+intervals*b.config.RefillRate, b.config.Capacity)
		if st.Tokens == b.config.Capacity {
			st.LastRefill = now
		} else {
			// Keep the unused part of the current interval.
			st.LastRefill = st.LastRefill.Add(time.Duration(intervals) * b.config.RefillInterval)
		}
	}

	remaining := -1
	if st.Tokens > 0 {
		st.Tokens--
		remaining = st.Tokens
	}

	if err := kvstore.SetJSON(ctx, b.store, key, st, b.ttl()); err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}
	return Result{
		Limit:     b.config.Capacity,
		Remaining: remaining,
		ResetAt:   st.LastRefill.Add(b.config.RefillInterval),
	}, nil
}

// Reset forgets key.
func (b *Bucket) Reset(ctx context.Context, key string) error {
	return b.store.Delete(ctx, key)
}

// ttl is how long a bucket takes to refill completely from empty.
func (b *Bucket) ttl() time.Duration {
	intervals := b.config.Capacity/b.config.RefillRate + 1
	return time.Duration(intervals) * b.config.RefillInterval
}
