package ports

import "github.com/coder/quartz"

// Clock is satisfied by quartz.NewReal() in production and quartz.NewMock in tests.
type Clock = quartz.Clock

func SystemClock() Clock {
	return quartz.NewReal()
}
