package ledger

import "time"

// Clock supplies the current Unix timestamp. The ledger never reads the
// system clock directly so tests can pin time.
type Clock interface {
	Now() int64
}

type systemClock struct{}

func (systemClock) Now() int64 {
	return time.Now().Unix()
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock is a Clock that always reports the same instant.
type FixedClock int64

func (c FixedClock) Now() int64 {
	return int64(c)
}
