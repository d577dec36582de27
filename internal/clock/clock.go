// Package clock injects time into the services so tests can pin
// registration and schedule decisions to a known instant.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type system struct{}

// NewSystem returns a clock backed by time.Now, normalized to UTC.
func NewSystem() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now().UTC()
}

type fixed struct {
	at time.Time
}

// NewFixed returns a clock frozen at t, for tests.
func NewFixed(t time.Time) Clock {
	return fixed{at: t.UTC()}
}

func (f fixed) Now() time.Time {
	return f.at
}
