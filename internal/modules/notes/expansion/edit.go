package expansion

import (
	"sort"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/platform/clock"
)

// BeginEdit puts a stable bullet into edit mode.
func (e *Engine) BeginEdit(id string) (Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en := e.findLocked(id)
	if en == nil {
		return Entry{}, ErrEntryNotFound
	}
	if en.State == Expanding {
		return Entry{}, ErrEntryBusy
	}
	en.Editable = true
	return en.clone(), nil
}

// EditLevel overwrites the text of the bullet's current level in place.
func (e *Engine) EditLevel(id, text string) (Entry, error) {
	e.mu.Lock()
	en := e.findLocked(id)
	if en == nil {
		e.mu.Unlock()
		return Entry{}, ErrEntryNotFound
	}
	if !en.Editable {
		e.mu.Unlock()
		return Entry{}, ErrNotEditable
	}
	if en.State == Expanding {
		e.mu.Unlock()
		return Entry{}, ErrEntryBusy
	}
	before := en.Display()
	en.History[en.Level] = text
	e.rippleLocked(en, before)
	out := en.clone()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeEntry, Entry: out})
	return out, nil
}

// CommitEdit leaves edit mode and records the current text in the level's edit log.
func (e *Engine) CommitEdit(id string) (Entry, error) {
	e.mu.Lock()
	en := e.findLocked(id)
	if en == nil {
		e.mu.Unlock()
		return Entry{}, ErrEntryNotFound
	}
	if !en.Editable {
		e.mu.Unlock()
		return Entry{}, ErrNotEditable
	}
	en.Editable = false
	if en.Level < len(en.History) {
		en.EditLog[en.Level] = append(en.EditLog[en.Level], types.Edit{Text: en.History[en.Level], At: clock.NowMillis(e.opts.Clock)})
	}
	out := en.clone()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeEntry, Entry: out})
	e.notifyThemes()
	return out, nil
}

// Reorder moves the bullet at from to to, shifting the ones in between. Ids are preserved,
// so in-flight requests still land on the right bullet.
func (e *Engine) Reorder(from, to int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := len(e.entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexOutOfRange
	}
	moveItem(e.entries, from, to)
	return nil
}

// SortByTime orders bullets by media creation time, keeping ties in their current order.
func (e *Engine) SortByTime() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	sort.SliceStable(e.entries, func(i, j int) bool {
		return e.entries[i].CreatedAt < e.entries[j].CreatedAt
	})
	return e.snapshotLocked()
}

func moveItem[T any](s []T, from, to int) {
	if from == to {
		return
	}
	item := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = item
}
