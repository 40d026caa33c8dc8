// Package settings provides the process-wide cache for system pricing
// settings, with TTL-based staleness, concurrent fetch deduplication and a
// circuit breaker that suspends refetching after rate-limit responses.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// Fetcher retrieves the settings object from its upstream source
type Fetcher interface {
	Fetch(ctx context.Context) (*entity.SystemSettings, error)
}

// RateLimitSignal is returned by a Fetcher when the upstream rate-limits
// the request. RetryAfter is zero when the server gave no explicit window.
type RateLimitSignal struct {
	RetryAfter time.Duration
}

func (e *RateLimitSignal) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("settings fetch rate limited, retry after %s", e.RetryAfter)
	}
	return "settings fetch rate limited"
}

// RateLimitedError is returned to callers when no cached value exists and
// the breaker is open. Callers may retry once RetryAfter has elapsed.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("settings unavailable, try again in %d seconds", int(e.RetryAfter.Seconds()))
}

// State describes the cache's current serving mode
type State string

const (
	// StateFresh serves the cached value directly
	StateFresh State = "FRESH"
	// StateStale serves the cached value while a background refetch runs
	StateStale State = "STALE"
	// StateRateLimited suspends fetching until the backoff window elapses
	StateRateLimited State = "RATE_LIMITED"
	// StateEmpty means nothing has been fetched yet
	StateEmpty State = "EMPTY"
)

const (
	baseBackoff = 60 * time.Second
	maxBackoff  = 300 * time.Second
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Service is the settings cache. Constructed once at startup; Reset exists
// for operator recovery and tests.
type Service struct {
	fetcher Fetcher
	ttl     time.Duration
	logger  Logger
	now     func() time.Time

	group singleflight.Group

	mu              sync.Mutex
	cached          *entity.SystemSettings
	fetchedAt       time.Time
	consecutiveHits int
	suspendedUntil  time.Time
}

// Option configures the service
type Option func(*Service)

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the settings cache around the given fetcher
func NewService(fetcher Fetcher, ttl time.Duration, logger Logger, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the cache's current serving mode
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.now().Before(s.suspendedUntil):
		return StateRateLimited
	case s.cached == nil:
		return StateEmpty
	case s.now().Sub(s.fetchedAt) < s.ttl:
		return StateFresh
	default:
		return StateStale
	}
}

// Get returns the current settings. Fresh values are served directly; stale
// values are served while a deduplicated background refetch runs; during a
// rate-limit window the cached value is served if present, otherwise a
// RateLimitedError reports how long to wait. Never silently retries before
// the backoff window elapses.
func (s *Service) Get(ctx context.Context) (*entity.SystemSettings, error) {
	s.mu.Lock()
	now := s.now()

	if now.Before(s.suspendedUntil) {
		cached := s.cached
		wait := s.suspendedUntil.Sub(now)
		s.mu.Unlock()
		if cached != nil {
			return cached, nil
		}
		return nil, &RateLimitedError{RetryAfter: wait}
	}

	if s.cached != nil && now.Sub(s.fetchedAt) < s.ttl {
		cached := s.cached
		s.mu.Unlock()
		return cached, nil
	}

	stale := s.cached
	s.mu.Unlock()

	if stale != nil {
		// Serve the stale value immediately; refresh off the request path.
		go func() {
			_, _, _ = s.group.Do("settings", func() (interface{}, error) {
				return s.fetch(context.Background())
			})
		}()
		return stale, nil
	}

	v, err, _ := s.group.Do("settings", func() (interface{}, error) {
		return s.fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.SystemSettings), nil
}

// fetch performs one upstream fetch and applies the result to the cache
// state. All cache mutation happens here, under the lock, in the fetch
// completion path.
func (s *Service) fetch(ctx context.Context) (*entity.SystemSettings, error) {
	fetched, err := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	var rl *RateLimitSignal
	if errors.As(err, &rl) {
		s.consecutiveHits++
		wait := backoffFor(s.consecutiveHits)
		if rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		s.suspendedUntil = s.now().Add(wait)
		s.logger.Warn("Settings fetch rate limited",
			"consecutive_hits", s.consecutiveHits,
			"backoff_seconds", int(wait.Seconds()))
		if s.cached != nil {
			return s.cached, nil
		}
		return nil, &RateLimitedError{RetryAfter: wait}
	}
	if err != nil {
		if s.cached != nil {
			return s.cached, nil
		}
		return nil, fmt.Errorf("settings fetch failed: %w", err)
	}

	s.cached = fetched
	s.fetchedAt = s.now()
	s.consecutiveHits = 0
	s.suspendedUntil = time.Time{}
	return fetched, nil
}

// Reset clears the cache and the rate-limit window. Operator escape hatch.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.fetchedAt = time.Time{}
	s.consecutiveHits = 0
	s.suspendedUntil = time.Time{}
	s.logger.Info("Settings cache reset")
}

// backoffFor computes the suspension window after the nth consecutive
// rate-limit response: min(60 * 2^(n-1), 300) seconds.
func backoffFor(hits int) time.Duration {
	wait := baseBackoff << (hits - 1)
	if wait > maxBackoff || wait <= 0 {
		wait = maxBackoff
	}
	return wait
}
