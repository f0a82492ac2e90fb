package expansion

import (
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

type State int

const (
	Stable State = iota
	Expanding
)

func (s State) String() string {
	if s == Expanding {
		return "expanding"
	}
	return "stable"
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	if string(b) == "expanding" {
		*s = Expanding
	} else {
		*s = Stable
	}
	return nil
}

// Entry is one bullet of the ledger. History[0] is the user's original text; History[i]
// is the i-th expansion. EditLog[i] records committed edits of History[i].
type Entry struct {
	ID        string         `json:"id"`
	History   []string       `json:"history"`
	Level     int            `json:"level"`
	EditLog   [][]types.Edit `json:"edit"`
	Pending   string         `json:"pending,omitempty"`
	CreatedAt float64        `json:"created_at"`
	WallTime  int64          `json:"utc_time"`
	Editable  bool           `json:"editable"`
	State     State          `json:"state"`

	gen uint64
}

// Display is the text currently shown for the entry.
func (e *Entry) Display() string {
	if e.Level < len(e.History) {
		return e.History[e.Level]
	}
	if e.Pending != "" {
		return e.Pending
	}
	if len(e.History) == 0 {
		return ""
	}
	return e.History[len(e.History)-1]
}

// Original is the level-0 text.
func (e *Entry) Original() string {
	if len(e.History) == 0 {
		return ""
	}
	return e.History[0]
}

func (e *Entry) clone() Entry {
	out := *e
	out.History = append([]string(nil), e.History...)
	out.EditLog = make([][]types.Edit, len(e.EditLog))
	for i, edits := range e.EditLog {
		out.EditLog[i] = append([]types.Edit{}, edits...)
	}
	return out
}

// ticket identifies one outstanding request. A result commits only if the ticket still matches.
type ticket struct {
	entryID string
	gen     uint64
	level   int
}
