// Package playback counts viewer seeks and pauses from media-time observations.
package playback

import (
	"math"
	"sync"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

// DefaultEpsilon is the jump, in seconds, past which a time change counts as a seek.
const DefaultEpsilon = 2.0

type Tracker struct {
	epsilon float64

	mu       sync.Mutex
	previous float64
	current  float64
	counters types.PlaybackCounters
}

func New(epsilon float64) *Tracker {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Tracker{epsilon: epsilon}
}

// Observe records the player's media time in seconds. Seeks are only counted while playing.
func (t *Tracker) Observe(mediaTime float64, playing bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = mediaTime
	if !playing {
		return
	}
	d := mediaTime - t.previous
	t.previous = mediaTime
	if math.Abs(d) <= t.epsilon {
		return
	}
	if d > 0 {
		t.counters.ForwardSeekCount++
	} else {
		t.counters.ReverseSeekCount++
	}
}

func (t *Tracker) Pause() {
	t.mu.Lock()
	t.counters.PauseCount++
	t.mu.Unlock()
}

func (t *Tracker) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *Tracker) Counters() types.PlaybackCounters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters
}
