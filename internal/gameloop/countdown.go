package gameloop

import "time"

// Countdown is a game timer advanced by frame steps rather than wall time,
// so a paused or stopped loop also pauses the timer.
type Countdown struct {
	total   time.Duration
	elapsed time.Duration
}

// NewCountdown creates a countdown of the given length.
func NewCountdown(total time.Duration) Countdown {
	return Countdown{total: total}
}

// Advance moves the countdown forward by dt and reports whether it has
// expired.
func (c *Countdown) Advance(dt time.Duration) bool {
	c.elapsed += dt
	if c.elapsed > c.total {
		c.elapsed = c.total
	}
	return c.Expired()
}

// Remaining returns the time left, never negative.
func (c Countdown) Remaining() time.Duration { return c.total - c.elapsed }

// Seconds returns the remaining whole seconds, rounded up, as shown to the
// player.
func (c Countdown) Seconds() int {
	r := c.Remaining()
	return int((r + time.Second - 1) / time.Second)
}

// Expired reports whether no time is left.
func (c Countdown) Expired() bool { return c.elapsed >= c.total }

// Reset rewinds the countdown to its full length.
func (c *Countdown) Reset() { c.elapsed = 0 }
