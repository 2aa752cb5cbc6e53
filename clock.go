package sigsock

import "time"

// Timer is a cancellable pending callback, as returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock is the source of time for heartbeats and reconnect delays.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock {
	return realClock{}
}
