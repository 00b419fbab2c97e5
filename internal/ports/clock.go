package ports

import "time"

// Clock abstracts wall-clock readings used for throttling.
// Production code uses SystemClock; tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real monotonic clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}
