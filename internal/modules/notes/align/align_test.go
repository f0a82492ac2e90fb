package align

import (
	"reflect"
	"testing"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

func seg(text string, off, dur int64) types.TranscriptSegment {
	return types.TranscriptSegment{Text: text, OffsetMs: off, DurationMs: dur}
}

func TestWindowedOverlap(t *testing.T) {
	transcript := []types.TranscriptSegment{
		seg("a", 0, 5000),
		seg("b", 18000, 3000),
		seg("c", 25000, 2000),
		seg("d", 41000, 1000),
	}
	cases := []struct {
		name      string
		createdAt float64
		want      []string
	}{
		{"window covers b and c", 40, []string{"b", "c"}},
		{"edge touching start", 25, []string{"a", "b", "c"}},
		{"before everything", -1, []string{}},
		{"late point", 1000, []string{}},
	}
	for _, tc := range cases {
		got := Windowed(types.NotePoint{Text: "p", CreatedAt: tc.createdAt}, transcript, 20000)
		if !reflect.DeepEqual(got.Transcript, tc.want) {
			t.Fatalf("%s: got %v want %v", tc.name, got.Transcript, tc.want)
		}
		if got.Point != "p" {
			t.Fatalf("%s: point=%q", tc.name, got.Point)
		}
	}
}

func TestWindowedMatchesOverlapPredicate(t *testing.T) {
	var transcript []types.TranscriptSegment
	for i := int64(0); i < 60; i++ {
		transcript = append(transcript, seg(string(rune('A'+i%26)), i*1700, 900+(i%5)*400))
	}
	for _, createdAt := range []float64{0, 3.3, 17, 45.9, 90, 120} {
		got := Windowed(types.NotePoint{CreatedAt: createdAt}, transcript, 20000)
		right := createdAt * 1000
		left := right - 20000
		var want []string
		for _, s := range transcript {
			if right >= float64(s.OffsetMs) && left <= float64(s.OffsetMs+s.DurationMs) {
				want = append(want, s.Text)
			}
		}
		if len(got.Transcript) != len(want) {
			t.Fatalf("createdAt=%v: got %d segments want %d", createdAt, len(got.Transcript), len(want))
		}
		for i := range want {
			if got.Transcript[i] != want[i] {
				t.Fatalf("createdAt=%v: idx %d got %q want %q", createdAt, i, got.Transcript[i], want[i])
			}
		}
	}
}

func TestWindowedDefaultsAndEmpty(t *testing.T) {
	got := Windowed(types.NotePoint{CreatedAt: 10}, nil, 0)
	if got.Transcript == nil || len(got.Transcript) != 0 {
		t.Fatalf("empty transcript should produce empty, non-nil result: %#v", got.Transcript)
	}
	got = Windowed(types.NotePoint{CreatedAt: 30}, []types.TranscriptSegment{seg("x", 9000, 500)}, 0)
	if len(got.Transcript) != 0 {
		t.Fatalf("segment ending before default window should be excluded: %v", got.Transcript)
	}
	got = Windowed(types.NotePoint{CreatedAt: 30}, []types.TranscriptSegment{seg("x", 10000, 500)}, 0)
	if len(got.Transcript) != 1 {
		t.Fatalf("segment ending at window start should be included: %v", got.Transcript)
	}
}

func TestCumulative(t *testing.T) {
	transcript := []types.TranscriptSegment{seg("a", 0, 100), seg("b", 2000, 100), seg("c", 2001, 100)}
	got := Cumulative(types.NotePoint{CreatedAt: 2}, transcript)
	if !reflect.DeepEqual(got.Transcript, []string{"a", "b"}) {
		t.Fatalf("got %v", got.Transcript)
	}
}

func TestJoinAndFullText(t *testing.T) {
	if got := Join([]string{"one", "two"}); got != "one.two" {
		t.Fatalf("Join=%q", got)
	}
	if got := FullText([]types.TranscriptSegment{seg("hello", 0, 1), seg("world", 1, 1)}); got != "hello world" {
		t.Fatalf("FullText=%q", got)
	}
}
