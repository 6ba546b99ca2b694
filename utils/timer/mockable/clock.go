// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"sync"
	"time"
)

// Clock acts as a thin wrapper around global time that allows for easy testing
type Clock struct {
	lock  sync.RWMutex
	faked bool
	time  time.Time
}

// Set the time on the clock
func (c *Clock) Set(time time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.faked = true
	c.time = time
}

// Advance moves a faked clock forward by [d]. It is a no-op on a synced clock.
func (c *Clock) Advance(d time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.faked {
		c.time = c.time.Add(d)
	}
}

// Sync this clock with global time
func (c *Clock) Sync() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.faked = false
}

// Time returns the time on this clock
func (c *Clock) Time() time.Time {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.faked {
		return c.time
	}
	return time.Now()
}

// UnixMilli returns the millisecond timestamp on this clock.
func (c *Clock) UnixMilli() int64 {
	return c.Time().UnixMilli()
}
