package ratelimit

import (
	"context"
	"sync"
	"time"

	"chirp/internal/usecases"
)

// Memory is an in-process sliding-window limiter. State lives in one
// process only, so it is unsuitable for multi-instance deployments; use
// the Redis limiter there.
type Memory struct {
	mu      sync.Mutex
	actions map[string][]time.Time
	limit   int
	window  time.Duration

	now func() time.Time
}

// NewMemory creates an in-process limiter and starts a janitor goroutine
// that evicts idle subjects. Stop it by cancelling ctx.
func NewMemory(ctx context.Context, limit int, window time.Duration) *Memory {
	m := &Memory{
		actions: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go m.janitor(ctx)
	return m
}

// Admit implements usecases.RateLimiter. The check and the record happen
// under one lock so concurrent admits for a subject at its limit cannot
// both succeed.
func (m *Memory) Admit(_ context.Context, subjectID string) (usecases.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	cutoff := now.Add(-m.window)

	recent := m.actions[subjectID][:0]
	for _, t := range m.actions[subjectID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= m.limit {
		m.actions[subjectID] = recent
		return usecases.Decision{Allowed: false, RetryAfter: m.window}, nil
	}

	m.actions[subjectID] = append(recent, now)
	return usecases.Decision{
		Allowed:   true,
		Remaining: m.limit - len(recent) - 1,
	}, nil
}

// janitor periodically drops subjects with no actions in the window.
func (m *Memory) janitor(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *Memory) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.window)
	for subject, timestamps := range m.actions {
		idle := true
		for _, t := range timestamps {
			if t.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(m.actions, subject)
		}
	}
}
