package clock

// Fake is a manually driven Clock for deterministic tests. Readings only move
// when Advance or Set is called, typically from inside a benchmarked action.
type Fake struct {
	now float64
}

// NewFake returns a Fake clock reading start microseconds.
func NewFake(start float64) *Fake {
	return &Fake{now: start}
}

// NowMicros implements Clock.
func (f *Fake) NowMicros() float64 {
	return f.now
}

// Advance moves the clock forward by us microseconds.
func (f *Fake) Advance(us float64) {
	f.now += us
}

// Set jumps the clock to an absolute reading, which may be in the past.
func (f *Fake) Set(us float64) {
	f.now = us
}
