// Package align selects the transcript segments that accompany a note point.
package align

import (
	"strings"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

// DefaultWindowMs is the span of transcript preceding a point that windowed alignment considers.
const DefaultWindowMs int64 = 20000

// Aligned is a point paired with the transcript text that accompanies it.
type Aligned struct {
	Point      string
	Transcript []string
}

// Windowed returns the segments overlapping [createdAt-window, createdAt], in transcript order.
// A non-positive window falls back to DefaultWindowMs.
func Windowed(point types.NotePoint, transcript []types.TranscriptSegment, windowMs int64) Aligned {
	if windowMs <= 0 {
		windowMs = DefaultWindowMs
	}
	right := point.CreatedAt * 1000.0
	left := right - float64(windowMs)

	out := Aligned{Point: point.Text, Transcript: []string{}}
	for _, seg := range transcript {
		start := float64(seg.OffsetMs)
		end := float64(seg.OffsetMs + seg.DurationMs)
		if !(right < start) && !(left > end) {
			out.Transcript = append(out.Transcript, seg.Text)
		}
	}
	return out
}

// Cumulative returns every segment that started at or before the point's creation instant.
func Cumulative(point types.NotePoint, transcript []types.TranscriptSegment) Aligned {
	right := point.CreatedAt * 1000.0
	out := Aligned{Point: point.Text, Transcript: []string{}}
	for _, seg := range transcript {
		if float64(seg.OffsetMs) <= right {
			out.Transcript = append(out.Transcript, seg.Text)
		}
	}
	return out
}

// Join renders aligned segments the way prompts expect them.
func Join(texts []string) string {
	return strings.Join(texts, ".")
}

// FullText concatenates every segment's text.
func FullText(transcript []types.TranscriptSegment) string {
	var b strings.Builder
	for i, seg := range transcript {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(seg.Text)
	}
	return b.String()
}
