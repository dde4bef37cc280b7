package shared

import "time"

// Clock supplies the current time to ledger and engine operations.
// Injecting it keeps calendar-day derivations (streaks, idempotent daily
// completion, weekly windows) deterministic in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now (UTC).
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock pinned to a specific instant, for tests.
type FixedClock struct {
	Time time.Time
}

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return c.Time
}

// Advance moves the fixed clock forward and returns the new clock.
func (c FixedClock) Advance(d time.Duration) FixedClock {
	return FixedClock{Time: c.Time.Add(d)}
}

// NextDay moves the fixed clock forward by one calendar day.
func (c FixedClock) NextDay() FixedClock {
	return FixedClock{Time: c.Time.AddDate(0, 0, 1)}
}
