// Package clock provides the playback clock governing replay pacing.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock reports the session's current time. During replay the delay shifts
// Now() behind wall clock; for live sessions the delay is zero. Delay may be
// adjusted concurrently while replay is running, affecting only messages
// delivered afterwards.
type Clock struct {
	delay atomic.Int64 // nanoseconds
}

func New() *Clock {
	return &Clock{}
}

func (c *Clock) Now() time.Time {
	return time.Now().UTC().Add(-c.Delay())
}

func (c *Clock) Delay() time.Duration {
	return time.Duration(c.delay.Load())
}

func (c *Clock) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.delay.Store(int64(d))
}

func (c *Clock) AdjustDelay(by time.Duration) {
	c.SetDelay(c.Delay() + by)
}
