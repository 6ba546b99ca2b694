// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package backoff holds the retry cooldown used by components that poll a
// remote source and must stay quiet for a while after a failure.
package backoff

import "time"

// Cooldown blocks retries for [Window] after the last failed attempt. The zero
// value allows every attempt.
type Cooldown struct {
	Window      time.Duration `json:"window"`
	LastAttempt time.Time     `json:"lastAttempt"`
}

func New(window time.Duration) Cooldown {
	return Cooldown{Window: window}
}

// Allowed reports whether an attempt may be made at [now].
func (c Cooldown) Allowed(now time.Time) bool {
	return c.Remaining(now) == 0
}

// Remaining returns how long the cooldown still blocks attempts.
func (c Cooldown) Remaining(now time.Time) time.Duration {
	if c.LastAttempt.IsZero() {
		return 0
	}
	remaining := c.LastAttempt.Add(c.Window).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Failed records a failed attempt at [now].
func (c *Cooldown) Failed(now time.Time) {
	c.LastAttempt = now
}

// Reset clears the last failure.
func (c *Cooldown) Reset() {
	c.LastAttempt = time.Time{}
}
