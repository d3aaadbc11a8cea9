// Package clock abstracts "now" so billing cutovers can be simulated.
//
// The engine consults the operator settings record on every scheduler pass;
// when test mode is enabled there, the configured test date overrides
// whatever Clock was injected. The Clock itself is only the fallback source
// of real time.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Func adapts a plain function to a Clock.
type Func func() time.Time

// Now implements Clock.
func (f Func) Now() time.Time { return f() }

// System returns a Clock backed by time.Now.
func System() Clock {
	return Func(time.Now)
}

// Fixed returns a Clock frozen at t. Useful in tests and for replaying a
// billing month.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
