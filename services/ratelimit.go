package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Mediamoney08/mediamoney-gateway/models"
	"github.com/Mediamoney08/mediamoney-gateway/utils"
	"github.com/google/uuid"
)

type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
	WindowDay    Window = "day"
)

const (
	DefaultPerMinute = 60
	DefaultPerHour   = 1000
	DefaultPerDay    = 10000
)

type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

func DefaultLimits() Limits {
	return Limits{
		PerMinute: DefaultPerMinute,
		PerHour:   DefaultPerHour,
		PerDay:    DefaultPerDay,
	}
}

// LimitsForKey applies per-key ceilings where the key record sets them.
func LimitsForKey(key *models.APIKey) Limits {
	limits := DefaultLimits()
	if key.RateLimitPerMinute > 0 {
		limits.PerMinute = key.RateLimitPerMinute
	}
	if key.RateLimitPerHour > 0 {
		limits.PerHour = key.RateLimitPerHour
	}
	if key.RateLimitPerDay > 0 {
		limits.PerDay = key.RateLimitPerDay
	}
	return limits
}

// CounterStore records one hit in a rolling window and returns the count
// after the hit. The implementation must make increment-and-count atomic;
// the production store is redis so counters are shared across instances.
type CounterStore interface {
	IncrWindow(ctx context.Context, key, member string, now time.Time, window time.Duration) (int64, error)
}

type RateLimiter struct {
	counters CounterStore
	log      *utils.Logger
}

func CreateRateLimiter(counters CounterStore) *RateLimiter {
	return &RateLimiter{
		counters: counters,
		log:      utils.NewLogger("ratelimit"),
	}
}

// Check records this request against the minute, hour and day windows and
// rejects it if any ceiling is exceeded. The increment is applied before
// the comparison, so rejected requests still count toward the window and
// near-limit bursts cannot be gamed.
func (rl *RateLimiter) Check(ctx context.Context, apiKeyID string, limits Limits) error {
	now := time.Now()
	member := uuid.NewString()

	checks := []struct {
		window   Window
		duration time.Duration
		ceiling  int
	}{
		{WindowMinute, time.Minute, limits.PerMinute},
		{WindowHour, time.Hour, limits.PerHour},
		{WindowDay, 24 * time.Hour, limits.PerDay},
	}

	for _, c := range checks {
		counterKey := fmt.Sprintf("ratelimit:%s:%s", apiKeyID, c.window)

		count, err := rl.counters.IncrWindow(ctx, counterKey, member, now, c.duration)
		if err != nil {
			// Counter store outage: let the request through rather than
			// turning a redis blip into a full gateway outage.
			rl.log.Error(ctx, "rate limit counter unavailable", map[string]interface{}{
				"api_key_id": apiKeyID,
				"window":     string(c.window),
				"error":      err.Error(),
			})
			continue
		}

		if c.ceiling > 0 && count > int64(c.ceiling) {
			return utils.RateLimitError(string(c.window))
		}
	}

	return nil
}

// MemoryCounterStore is a process-local CounterStore used in tests and as a
// degraded single-instance fallback when redis is unreachable at startup.
type MemoryCounterStore struct {
	mu   sync.Mutex
	hits map[string][]int64
}

func CreateMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{hits: make(map[string][]int64)}
}

func (m *MemoryCounterStore) IncrWindow(ctx context.Context, key, member string, now time.Time, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-window).UnixNano()
	kept := m.hits[key][:0]
	for _, ts := range m.hits[key] {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	kept = append(kept, now.UnixNano())
	m.hits[key] = kept

	return int64(len(kept)), nil
}
