package clock

import "time"

// FakeClock is a Clock pinned to an instant for tests. It only moves
// when Advance or Set is called.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (f *FakeClock) Now() time.Time { return f.now }

// Advance moves the clock forward (or backward, with a negative d).
func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Set repins the clock to t in UTC.
func (f *FakeClock) Set(t time.Time) {
	f.now = t.UTC()
}
