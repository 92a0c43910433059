package exam

import "fmt"

// Timer bounds in seconds. A practice session never runs shorter than
// MinBound or longer than MaxBound regardless of the requested duration.
const (
	MinBound = 10
	MaxBound = 3600
)

// ClampDuration converts requested minutes into the timer's initial
// bound: clamp(60*minutes, MinBound, MaxBound).
func ClampDuration(minutes int) int {
	seconds := 60 * minutes
	if seconds < MinBound {
		return MinBound
	}
	if seconds > MaxBound {
		return MaxBound
	}
	return seconds
}

// FormatRemaining renders remaining seconds as a zero-padded "mm:ss"
// display. Minutes are not wrapped at 60, so a full hour shows "60:00".
func FormatRemaining(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// Countdown is second-resolution remaining-time state. It is not safe
// for concurrent use; drive it from a single ticker goroutine.
type Countdown struct {
	remaining int
}

// NewCountdown starts a countdown at the given bound (floored at zero).
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds}
}

// Tick consumes one second and reports whether the countdown just
// reached zero. Ticking an expired countdown stays at zero and reports
// false, so expiry fires exactly once.
func (c *Countdown) Tick() (remaining int, expired bool) {
	if c.remaining == 0 {
		return 0, false
	}
	c.remaining--
	return c.remaining, c.remaining == 0
}

// Remaining returns the current remaining seconds.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether the countdown has reached zero.
func (c *Countdown) Expired() bool {
	return c.remaining == 0
}

// Display renders the current remaining time as "mm:ss".
func (c *Countdown) Display() string {
	return FormatRemaining(c.remaining)
}
