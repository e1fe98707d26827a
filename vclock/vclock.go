/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package vclock keeps the reference time obtained from a remote NTP
// server and extrapolates "now" from it using the local monotonic clock.
package vclock

import (
	"errors"
	"sync"
	"time"
)

// ErrNotSeeded is returned by Now before the first Seed
var ErrNotSeeded = errors.New("no virtual reference time available")

// Clock derives the believed current time from a reference timestamp
// captured at a known local instant. Reference and capture instant are
// always written together under the lock, so a future background
// refresher can reseed while techniques read.
type Clock struct {
	mu         sync.Mutex
	reference  time.Time
	capturedAt time.Time
}

// New returns an unseeded Clock
func New() *Clock {
	return &Clock{}
}

// Seed stores the reference time and records the local instant it was
// captured at. Overwrites any previous seed.
func (c *Clock) Seed(reference time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reference = reference
	c.capturedAt = time.Now()
}

// Now extrapolates the reference time by the wall clock elapsed since
// capture. Returns ErrNotSeeded if Seed was never called.
func (c *Clock) Now() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.capturedAt.IsZero() {
		return time.Time{}, ErrNotSeeded
	}
	return c.reference.Add(time.Since(c.capturedAt)), nil
}

// Seeded reports whether the clock holds a reference time
func (c *Clock) Seeded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.capturedAt.IsZero()
}
