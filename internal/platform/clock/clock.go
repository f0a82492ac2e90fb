package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep edit timestamps deterministic in tests.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }

// NowMillis is the epoch-millisecond form used on the wire (utc_time, e_time).
func NowMillis(c Clock) int64 {
	if c == nil {
		c = System{}
	}
	return c.Now().UnixMilli()
}

// Fake advances only when told to.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

func NewFake(start time.Time) *Fake { return &Fake{now: start} }

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}
