package playback

import (
	"testing"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

func TestObserveCountsSeeks(t *testing.T) {
	tr := New(0)
	for _, ts := range []float64{1, 2, 3, 10, 11, 4, 5} {
		tr.Observe(ts, true)
	}
	tr.Observe(60, false)
	tr.Pause()
	tr.Pause()

	// Only 3->10 and 11->4 exceed epsilon.
	want := types.PlaybackCounters{ForwardSeekCount: 1, ReverseSeekCount: 1, PauseCount: 2}
	if got := tr.Counters(); got != want {
		t.Fatalf("counters=%+v want %+v", got, want)
	}
	if got := tr.CurrentTime(); got != 60 {
		t.Fatalf("current=%v", got)
	}
}

func TestObserveWhilePausedDoesNotMovePrevious(t *testing.T) {
	tr := New(2)
	tr.Observe(1, true)
	tr.Observe(30, false)
	tr.Observe(2, true)
	if got := tr.Counters(); got.ForwardSeekCount != 0 || got.ReverseSeekCount != 0 {
		t.Fatalf("counters=%+v", got)
	}
}
