package application

import "time"

// Clock interface so services can be tested with a fixed time
type Clock interface {
	Now() time.Time
}

// SystemClock is the default implementation, returns time.Now() in UTC
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns T. Handy in tests.
type FixedClock struct{ T time.Time }

func (c FixedClock) Now() time.Time { return c.T }
