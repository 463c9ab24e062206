// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

// Package ratelimit bounds calls to the manifest provider with a per-key
// sliding window. Keys are launch identifiers (or the directory key), so one
// busy launch cannot drain the shared provider quota.
//
// The window is held purely in memory and rebuilt empty on restart: the
// provider's quota resets on its own schedule, not on process lifetime.
package ratelimit

import (
	"sync"
	"time"
)

// Clock returns the current time. Injectable so tests advance time without
// wall-clock sleeps.
type Clock func() time.Time

// KeyedLimiter is a sliding-window call counter per resource key.
//
// A denied acquisition is a scheduling signal, not an error: callers skip the
// refresh for this cycle and retry on a later request. TryAcquire never
// blocks.
type KeyedLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	maxCalls int
	now      Clock
	calls    map[string][]time.Time
}

// New creates a limiter allowing maxCalls per key within the trailing window.
func New(window time.Duration, maxCalls int, now Clock) *KeyedLimiter {
	if now == nil {
		now = time.Now
	}
	return &KeyedLimiter{
		window:   window,
		maxCalls: maxCalls,
		now:      now,
		calls:    make(map[string][]time.Time),
	}
}

// TryAcquire reports whether a call for key is currently allowed. It does not
// record the call; callers that proceed must call Record.
func (l *KeyedLimiter) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.prune(key, l.now())) < l.maxCalls
}

// Record notes that a call for key was issued now.
func (l *KeyedLimiter) Record(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.calls[key] = append(l.prune(key, now), now)
}

// Acquire combines TryAcquire and Record atomically: it records the call and
// returns true only when the window has room.
func (l *KeyedLimiter) Acquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.prune(key, now)
	if len(kept) >= l.maxCalls {
		l.calls[key] = kept
		return false
	}
	l.calls[key] = append(kept, now)
	return true
}

// Remaining returns how many calls key has left in the current window.
func (l *KeyedLimiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	used := len(l.prune(key, l.now()))
	if used >= l.maxCalls {
		return 0
	}
	return l.maxCalls - used
}

// Cleanup drops keys whose windows are empty. Returns the number removed.
// Called opportunistically so abandoned launch keys do not accumulate.
func (l *KeyedLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key := range l.calls {
		if len(l.prune(key, now)) == 0 {
			delete(l.calls, key)
			removed++
		}
	}
	return removed
}

// prune drops timestamps older than the window and stores the survivors.
// Must be called with mu held.
func (l *KeyedLimiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	stamps := l.calls[key]

	kept := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.calls[key] = kept
	return kept
}
