package clock

import "time"

// Clock abstracts time to keep the store deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock, truncated to whole seconds.
type System struct{}

func (System) Now() time.Time {
	return time.Now().Truncate(time.Second)
}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time {
	return f()
}

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
