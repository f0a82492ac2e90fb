package expansion

import (
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

// SetThemes installs a freshly generated theme list. Each unbound point row is bound to the
// first unclaimed bullet whose current text matches, so later level changes follow the
// bullet by id.
func (e *Engine) SetThemes(items []types.ThemeItem) []types.ThemeItem {
	e.mu.Lock()
	themes := append([]types.ThemeItem(nil), items...)
	claimed := make(map[string]bool, len(themes))
	for _, it := range themes {
		if it.Kind == types.ThemePoint && it.EntryID != "" {
			claimed[it.EntryID] = true
		}
	}
	for i := range themes {
		if themes[i].Kind != types.ThemePoint || themes[i].EntryID != "" {
			continue
		}
		for _, en := range e.entries {
			if !claimed[en.ID] && en.Display() == themes[i].Text {
				themes[i].EntryID = en.ID
				claimed[en.ID] = true
				break
			}
		}
	}
	e.themes = themes
	out := append([]types.ThemeItem(nil), e.themes...)
	e.mu.Unlock()
	e.notifyThemes()
	return out
}

func (e *Engine) Themes() []types.ThemeItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]types.ThemeItem{}, e.themes...)
}

func (e *Engine) EditTheme(i int) ([]types.ThemeItem, error) {
	return e.updateTheme(i, func(t *types.ThemeItem) { t.Editable = true })
}

func (e *Engine) ChangeTheme(i int, text string) ([]types.ThemeItem, error) {
	return e.updateTheme(i, func(t *types.ThemeItem) { t.Text = text })
}

func (e *Engine) CommitTheme(i int) ([]types.ThemeItem, error) {
	return e.updateTheme(i, func(t *types.ThemeItem) { t.Editable = false })
}

func (e *Engine) ReorderThemes(from, to int) ([]types.ThemeItem, error) {
	e.mu.Lock()
	n := len(e.themes)
	if from < 0 || from >= n || to < 0 || to >= n {
		e.mu.Unlock()
		return nil, ErrIndexOutOfRange
	}
	moveItem(e.themes, from, to)
	out := append([]types.ThemeItem{}, e.themes...)
	e.mu.Unlock()
	e.notifyThemes()
	return out, nil
}

func (e *Engine) updateTheme(i int, fn func(*types.ThemeItem)) ([]types.ThemeItem, error) {
	e.mu.Lock()
	if i < 0 || i >= len(e.themes) {
		e.mu.Unlock()
		return nil, ErrIndexOutOfRange
	}
	fn(&e.themes[i])
	out := append([]types.ThemeItem{}, e.themes...)
	e.mu.Unlock()
	e.notifyThemes()
	return out, nil
}

// rippleLocked rewrites the theme rows that mirror en after its displayed text changed.
// Rows bound to en by id follow it. Otherwise the first unbound row showing the old text
// is rewritten.
func (e *Engine) rippleLocked(en *Entry, before string) {
	after := en.Display()
	if after == before || len(e.themes) == 0 {
		return
	}
	fallback := true
	for i := range e.themes {
		it := &e.themes[i]
		if it.Kind != types.ThemePoint {
			continue
		}
		switch {
		case it.EntryID == en.ID:
			it.Text = after
		case fallback && it.EntryID == "" && it.Text == before:
			it.Text = after
			fallback = false
		}
	}
}

func (e *Engine) notifyThemes() {
	if e.opts.OnChange == nil {
		return
	}
	e.mu.Lock()
	if len(e.themes) == 0 {
		e.mu.Unlock()
		return
	}
	out := append([]types.ThemeItem{}, e.themes...)
	e.mu.Unlock()
	e.opts.OnChange(Change{Kind: ChangeThemes, Themes: out})
}
