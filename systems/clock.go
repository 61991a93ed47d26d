package systems

import "time"

// Clock is the time source agent cooldowns read from.
type Clock interface {
	Now() time.Time
}

// WallClock reads the process wall clock.
type WallClock struct{}

// Now returns time.Now().
func (WallClock) Now() time.Time { return time.Now() }

// SimClock is a manually advanced clock. The driver advances it by one tick
// duration per tick so cooldowns are measured in simulated time.
type SimClock struct {
	now time.Time
}

// simEpoch is an arbitrary non-zero start so a fresh Cooldown never
// mistakes the first reading for "never acted".
var simEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NewSimClock creates a simulated clock at its epoch.
func NewSimClock() *SimClock {
	return &SimClock{now: simEpoch}
}

// Now returns the current simulated time.
func (c *SimClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *SimClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Elapsed returns the simulated time since the epoch.
func (c *SimClock) Elapsed() time.Duration { return c.now.Sub(simEpoch) }

// Cooldown is an agent's private rate limiter.
type Cooldown struct {
	delay time.Duration
	last  time.Time
	clock Clock
}

// NewCooldown creates a cooldown of delay on clock. A nil clock uses wall time.
func NewCooldown(delay time.Duration, clock Clock) Cooldown {
	if clock == nil {
		clock = WallClock{}
	}
	return Cooldown{delay: delay, clock: clock}
}

// Ready reports whether at least delay has elapsed since the last Mark.
// It never mutates state.
func (c *Cooldown) Ready() bool {
	if c.last.IsZero() {
		return true
	}
	return c.clock.Now().Sub(c.last) >= c.delay
}

// Mark records an action at the current time.
func (c *Cooldown) Mark() {
	c.last = c.clock.Now()
}

// Delay returns the configured minimum interval.
func (c *Cooldown) Delay() time.Duration { return c.delay }

// Last returns the time of the last action, zero if none.
func (c *Cooldown) Last() time.Time { return c.last }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
