// Package export builds the downloadable session log: every bullet with its edit history
// and transcript context, plus the session's button and playback counters.
package export

import (
	"regexp"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/align"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
)

const fileSuffix = "bulletPointsData.json"

type Bullet struct {
	Point              string         `json:"point"`
	FractionTranscript []string       `json:"fraction_transcript"`
	WallTime           int64          `json:"utc_time"`
	NoteTakingTime     float64        `json:"note_taking_time"`
	Edit               [][]types.Edit `json:"edit"`
}

type Artifact struct {
	ButtonStats  types.ButtonStats `json:"buttonStats"`
	PauseCount   int               `json:"pauseCount"`
	ForwardCount int               `json:"forwardCount"`
	ReverseCount int               `json:"reverseCount"`
	SummaryT     string            `json:"summary_t"`
	SummaryP     string            `json:"summary_p"`
	URL          string            `json:"url"`
	EditHistory  []Bullet          `json:"editHistory"`
}

type Input struct {
	Entries    []expansion.Entry
	Transcript []types.TranscriptSegment
	Stats      types.ButtonStats
	Counters   types.PlaybackCounters
	// SummaryT is the transcript summary, SummaryP the point summary.
	SummaryT string
	SummaryP string
	VideoID  string
}

func Build(in Input) Artifact {
	out := Artifact{
		ButtonStats:  in.Stats,
		PauseCount:   in.Counters.PauseCount,
		ForwardCount: in.Counters.ForwardSeekCount,
		ReverseCount: in.Counters.ReverseSeekCount,
		SummaryT:     in.SummaryT,
		SummaryP:     in.SummaryP,
		URL:          VideoURL(in.VideoID),
		EditHistory:  make([]Bullet, len(in.Entries)),
	}
	for i, en := range in.Entries {
		shown := types.NotePoint{Text: en.Display(), CreatedAt: en.CreatedAt, WallTime: en.WallTime}
		out.EditHistory[i] = Bullet{
			Point:              en.Original(),
			FractionTranscript: align.Cumulative(shown, in.Transcript).Transcript,
			WallTime:           en.WallTime,
			NoteTakingTime:     noteTakingTime(in.Entries, i),
			Edit:               en.EditLog,
		}
	}
	return out
}

// noteTakingTime is the media offset of the first bullet and the wall-clock gap to the
// previous bullet for the rest, both in milliseconds.
func noteTakingTime(entries []expansion.Entry, i int) float64 {
	if i == 0 {
		return entries[0].CreatedAt * 1000.0
	}
	return float64(entries[i].WallTime - entries[i-1].WallTime)
}

func VideoURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "www.youtube.com/watch?v=" + videoID
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName is the download name for a note's artifact.
func FileName(noteName string) string {
	return whitespace.ReplaceAllString(noteName, "") + fileSuffix
}
