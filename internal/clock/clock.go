// Package clock provides the source of "now" used for timestamps and forecast slots.
package clock

import "time"

// Clock returns the current time
type Clock interface {
	Now() time.Time
}

// System reads the wall clock, converted to Location when set
type System struct {
	Location *time.Location
}

// NewSystem creates a system clock reporting times in loc (nil means local time)
func NewSystem(loc *time.Location) System {
	return System{Location: loc}
}

// Now implements Clock
func (s System) Now() time.Time {
	now := time.Now()
	if s.Location != nil {
		return now.In(s.Location)
	}
	return now
}

// Fixed always returns the same instant
type Fixed time.Time

// Now implements Clock
func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Func adapts a function to the Clock interface
type Func func() time.Time

// Now implements Clock
func (f Func) Now() time.Time {
	return f()
}

var (
	_ Clock = System{}
	_ Clock = Fixed{}
	_ Clock = Func(nil)
)
