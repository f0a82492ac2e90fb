package notes

// NotePoint is one micro-note as typed by the user.
// CreatedAt is media time in seconds; WallTime is epoch milliseconds.
type NotePoint struct {
	Text      string  `json:"point"`
	CreatedAt float64 `json:"created_at"`
	WallTime  int64   `json:"utc_time"`
}

// TranscriptSegment is a timed slice of the video transcript, in milliseconds.
type TranscriptSegment struct {
	Text       string `json:"text"`
	OffsetMs   int64  `json:"offset"`
	DurationMs int64  `json:"duration"`
}

// Edit is one committed edit of a given expansion level.
type Edit struct {
	Text string `json:"e_point"`
	At   int64  `json:"e_time"`
}

// Expansion pairs a point with the latest expansion text the model produced for it.
type Expansion struct {
	Point     string `json:"point"`
	Expansion string `json:"expansion"`
}

type ThemeKind string

const (
	ThemeTopic ThemeKind = "topic"
	ThemePoint ThemeKind = "point"
)

// ThemeItem is a row of the flattened theme list: either a topic header or a point under it.
// EntryID binds a point row to the ledger entry it was matched to; empty when unbound.
type ThemeItem struct {
	Kind     ThemeKind `json:"kind"`
	Text     string    `json:"text"`
	Editable bool      `json:"editable"`
	EntryID  string    `json:"entry_id,omitempty"`
}

func (t ThemeItem) IsTopic() bool { return t.Kind == ThemeTopic }

// Topic is one extracted grouping, in discovery order.
type Topic struct {
	Label  string   `json:"label"`
	Points []string `json:"points"`
}

type QuizItem struct {
	Question      string    `json:"question"`
	Options       [4]string `json:"options"`
	CorrectOption string    `json:"correct_option"`
}

// ButtonStats counts note-level control usage.
type ButtonStats struct {
	ThemeCount  int `json:"theme_count"`
	ExpandCount int `json:"expand_count"`
	TimeCount   int `json:"time_count"`
}

// PlaybackCounters are session-scoped and reset on note switch.
type PlaybackCounters struct {
	ForwardSeekCount int `json:"forward_seek_count"`
	ReverseSeekCount int `json:"reverse_seek_count"`
	PauseCount       int `json:"pause_count"`
}
