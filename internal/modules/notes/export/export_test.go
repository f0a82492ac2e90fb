package export

import (
	"encoding/json"
	"testing"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
)

func entry(text string, createdAt float64, wall int64) expansion.Entry {
	return expansion.Entry{
		ID:        text,
		History:   []string{text},
		EditLog:   [][]types.Edit{{{Text: text, At: wall}}},
		CreatedAt: createdAt,
		WallTime:  wall,
	}
}

func TestBuildNoteTakingTime(t *testing.T) {
	in := Input{Entries: []expansion.Entry{
		entry("a", 2, 1_000),
		entry("b", 5, 4_000),
		entry("c", 9, 9_000),
	}}
	got := Build(in)
	want := []float64{2000, 3000, 5000}
	for i, w := range want {
		if got.EditHistory[i].NoteTakingTime != w {
			t.Fatalf("note_taking_time[%d]=%v want %v", i, got.EditHistory[i].NoteTakingTime, w)
		}
	}
}

func TestBuildUsesCanonicalPointAndCumulativeTranscript(t *testing.T) {
	en := entry("osmosis", 12, 100)
	en.History = append(en.History, "Osmosis moves water across a membrane.")
	en.EditLog = append(en.EditLog, []types.Edit{{Text: en.History[1], At: 200}})
	en.Level = 1

	art := Build(Input{
		Entries: []expansion.Entry{en},
		Transcript: []types.TranscriptSegment{
			{Text: "intro", OffsetMs: 0, DurationMs: 4000},
			{Text: "water", OffsetMs: 11000, DurationMs: 3000},
			{Text: "later", OffsetMs: 13000, DurationMs: 3000},
		},
		Stats:    types.ButtonStats{ThemeCount: 1, ExpandCount: 2, TimeCount: 3},
		Counters: types.PlaybackCounters{ForwardSeekCount: 4, ReverseSeekCount: 5, PauseCount: 6},
		SummaryT: "st",
		SummaryP: "sp",
		VideoID:  "abc123",
	})
	b := art.EditHistory[0]
	if b.Point != "osmosis" || len(b.Edit) != 2 {
		t.Fatalf("bullet=%+v", b)
	}
	if len(b.FractionTranscript) != 2 || b.FractionTranscript[1] != "water" {
		t.Fatalf("fraction_transcript=%v", b.FractionTranscript)
	}
	if art.URL != "www.youtube.com/watch?v=abc123" || art.PauseCount != 6 || art.ForwardCount != 4 || art.ReverseCount != 5 {
		t.Fatalf("artifact=%+v", art)
	}

	raw, err := json.Marshal(art)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"buttonStats", "pauseCount", "forwardCount", "reverseCount", "summary_t", "summary_p", "url", "editHistory"} {
		if _, ok := m[k]; !ok {
			t.Fatalf("missing key %q in %s", k, raw)
		}
	}
}

func TestFileNameAndURL(t *testing.T) {
	if got := FileName("Bio 101  lecture\t3"); got != "Bio101lecture3bulletPointsData.json" {
		t.Fatalf("FileName=%q", got)
	}
	if VideoURL("") != "" {
		t.Fatalf("empty video id should have empty url")
	}
}
