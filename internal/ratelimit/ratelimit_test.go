// LaunchWindow - Rocket Launch Schedule and Stream Coverage Tracking
// Copyright 2026 LaunchWindow Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/launchwindow/server

package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable clock for driving the sliding window.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestAcquire_DeniesSixthCallInWindow verifies the production policy of 5
// calls per 60 minutes: the sixth is denied, and the key recovers once the
// oldest call ages out.
func TestAcquire_DeniesSixthCallInWindow(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	limiter := New(60*time.Minute, 5, clock.Now)

	for i := 0; i < 5; i++ {
		if !limiter.Acquire("launch:a") {
			t.Fatalf("call %d should be allowed", i+1)
		}
		clock.Advance(time.Minute)
	}

	if limiter.Acquire("launch:a") {
		t.Fatal("sixth call within the window must be denied")
	}
	if got := limiter.Remaining("launch:a"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}

	// 65 minutes after the first call, the oldest stamps have aged out.
	clock.Advance(60 * time.Minute)
	if !limiter.Acquire("launch:a") {
		t.Error("call must be allowed after the window slides past the oldest stamps")
	}
}

// TestAcquire_KeysAreIndependent verifies one saturated key does not starve
// another.
func TestAcquire_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	limiter := New(60*time.Minute, 2, clock.Now)

	if !limiter.Acquire("launch:a") || !limiter.Acquire("launch:a") {
		t.Fatal("setup acquisitions failed")
	}
	if limiter.Acquire("launch:a") {
		t.Fatal("launch:a should be saturated")
	}
	if !limiter.Acquire("launch:b") {
		t.Error("launch:b must be unaffected by launch:a saturation")
	}
	if !limiter.Acquire("directory") {
		t.Error("directory must be unaffected by launch:a saturation")
	}
}

// TestTryAcquire_DoesNotRecord verifies TryAcquire is a pure probe.
func TestTryAcquire_DoesNotRecord(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	limiter := New(time.Hour, 1, clock.Now)

	for i := 0; i < 10; i++ {
		if !limiter.TryAcquire("launch:a") {
			t.Fatal("repeated probes must not consume the window")
		}
	}
	limiter.Record("launch:a")
	if limiter.TryAcquire("launch:a") {
		t.Error("probe should fail after Record fills the window")
	}
}

// TestCleanup_RemovesIdleKeys verifies keys with fully aged-out windows are
// dropped while active keys survive.
func TestCleanup_RemovesIdleKeys(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	limiter := New(time.Hour, 5, clock.Now)

	limiter.Acquire("launch:old")
	clock.Advance(2 * time.Hour)
	limiter.Acquire("launch:active")

	if removed := limiter.Cleanup(); removed != 1 {
		t.Errorf("Cleanup removed %d keys, want 1", removed)
	}
	if got := limiter.Remaining("launch:active"); got != 4 {
		t.Errorf("active key Remaining = %d, want 4", got)
	}
}

// TestAcquire_ConcurrentCallsNeverExceedBudget hammers one key from many
// goroutines and verifies the total grants never exceed the budget.
func TestAcquire_ConcurrentCallsNeverExceedBudget(t *testing.T) {
	limiter := New(time.Hour, 10, nil)

	var wg sync.WaitGroup
	granted := make(chan struct{}, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Acquire("launch:a") {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	count := 0
	for range granted {
		count++
	}
	if count != 10 {
		t.Errorf("granted %d calls, want exactly 10", count)
	}
}
