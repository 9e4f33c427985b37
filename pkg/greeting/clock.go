package greeting

import "time"

// Clock supplies the current time. Handlers read it once per request.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in Location, or time.Local when nil.
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the configured location.
func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

// Greeter binds a Clock to the formatting helpers.
type Greeter struct {
	clock Clock
}

// NewGreeter returns a Greeter reading from clock. A nil clock means SystemClock{}.
func NewGreeter(clock Clock) *Greeter {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Greeter{clock: clock}
}

// Welcome returns the static greeting.
func (g *Greeter) Welcome() string {
	return Static()
}

// TimeNow reads the clock once and returns the instant, its period and the
// formatted greeting.
func (g *Greeter) TimeNow() (time.Time, Period, string) {
	now := g.clock.Now()
	return now, Classify(now), Format(now)
}
