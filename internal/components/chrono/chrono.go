package chrono

import "time"

// API is the source of the current time for anything that expires.
//
// note: fault injection point
type API interface {
	Now() time.Time
}

type StandardImpl struct{}

func (StandardImpl) Now() time.Time {
	return time.Now().UTC()
}

// FixedImpl always returns the same instant, use Advance to move it forward.
type FixedImpl struct {
	At *time.Time
}

func NewFixedImpl(at time.Time) FixedImpl {
	return FixedImpl{At: &at}
}

func (f FixedImpl) Now() time.Time {
	return *f.At
}

func (f FixedImpl) Advance(d time.Duration) {
	*f.At = f.At.Add(d)
}
