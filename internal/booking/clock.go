package booking

import "time"

// Clock abstracts wall-clock reads and sleeps so the settle interval and
// retry backoffs can run instantly under test. The reservation flow sleeps
// synchronously on purpose: a supplier is actively waiting for confirmation.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now().UTC() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }
