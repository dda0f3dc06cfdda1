// Copyright 2026 The Skillforge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the current time for testability.
// Production code injects [Real]; tests inject a [Fake] with a fixed
// or manually advanced time, so metadata timestamps are deterministic.
package clock

import (
	"sync"
	"time"
)

// Clock supplies the current time. Every production function that
// would call time.Now directly should instead accept a Clock (or be a
// method on a struct with a Clock field).
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the system time.
func Real() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Fake is a Clock whose time only moves when told to. The zero value
// is not usable; construct with [NewFake].
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake frozen at the given instant.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance moves the fake's time forward by d.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// Set moves the fake's time to the given instant.
func (f *Fake) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}
