package playback

import "time"

// Gate decides whether enough time has passed since the last advance.
// It keeps the timer state separate from whatever invokes it, so frame rate
// and simulation speed stay independent.
type Gate struct {
	interval time.Duration
	last     time.Time
}

// NewGate returns a gate opening once more than interval has elapsed
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// SetInterval changes the interval; it applies to the next Ready call
func (g *Gate) SetInterval(interval time.Duration) {
	g.interval = interval
}

// Interval returns the current interval
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Reset makes now the reference point for the next interval
func (g *Gate) Reset(now time.Time) {
	g.last = now
}

// Ready reports whether strictly more than the interval has elapsed since the
// reference point, moving the reference to now when it has
func (g *Gate) Ready(now time.Time) bool {
	if now.Sub(g.last) <= g.interval {
		return false
	}
	g.last = now
	return true
}
