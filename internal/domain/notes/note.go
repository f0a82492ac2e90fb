package notes

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Micronote bool      `gorm:"column:micronote;not null;default:false" json:"micronote"`
	VideoID   string    `gorm:"column:video_id" json:"video_id"`

	// Content holds level-0 text only, as []NotePoint.
	Content datatypes.JSON `gorm:"column:content" json:"content"`
	// Transcript is []TranscriptSegment.
	Transcript datatypes.JSON `gorm:"column:transcript" json:"transcript"`
	// Expansions is []Expansion.
	Expansions datatypes.JSON `gorm:"column:expansions" json:"expansions"`

	GeneratedSummary  string `gorm:"column:generated_summary" json:"generated_summary"`
	GeneratedSummaryP string `gorm:"column:generated_summary_p" json:"generated_summary_p"`

	ThemeCount  int `gorm:"column:theme_count;not null;default:0" json:"theme_count"`
	ExpandCount int `gorm:"column:expand_count;not null;default:0" json:"expand_count"`
	TimeCount   int `gorm:"column:time_count;not null;default:0" json:"time_count"`

	// RecordingStart is the epoch ms at which the current note session was opened.
	RecordingStart int64 `gorm:"column:recording_start" json:"recording_start"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string { return "note" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (n *Note) Points() ([]NotePoint, error) {
	var out []NotePoint
	return out, decodeJSON(n.Content, &out)
}

func (n *Note) SetPoints(pts []NotePoint) error {
	return encodeJSON(&n.Content, nonNilSlice(pts))
}

func (n *Note) TranscriptSegments() ([]TranscriptSegment, error) {
	var out []TranscriptSegment
	return out, decodeJSON(n.Transcript, &out)
}

func (n *Note) SetTranscript(segs []TranscriptSegment) error {
	return encodeJSON(&n.Transcript, nonNilSlice(segs))
}

func (n *Note) ExpansionList() ([]Expansion, error) {
	var out []Expansion
	return out, decodeJSON(n.Expansions, &out)
}

func (n *Note) SetExpansions(xs []Expansion) error {
	return encodeJSON(&n.Expansions, nonNilSlice(xs))
}

func (n *Note) Stats() ButtonStats {
	return ButtonStats{ThemeCount: n.ThemeCount, ExpandCount: n.ExpandCount, TimeCount: n.TimeCount}
}

func decodeJSON(raw datatypes.JSON, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func encodeJSON(dst *datatypes.JSON, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	*dst = datatypes.JSON(b)
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
