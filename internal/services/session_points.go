package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/noteeline-backend/internal/data/repos"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/platform/clock"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

var ErrEmptyPoint = fmt.Errorf("point text is empty: %w", apperrors.ErrInvalidArgument)

// AddPoint appends a bullet. When createdAt is nil the media time comes from the playback
// tracker, or for micronotes from the time elapsed since the session opened.
func (m *SessionManager) AddPoint(ctx context.Context, text string, createdAt *float64) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return expansion.Entry{}, ErrEmptyPoint
	}
	now := clock.NowMillis(m.deps.Clock)
	var at float64
	switch n := s.noteCopy(); {
	case createdAt != nil:
		at = *createdAt
	case n.Micronote:
		at = float64(now-n.RecordingStart) / 1000.0
	default:
		at = s.tracker.CurrentTime()
	}
	en, err := s.engine.Append(types.NotePoint{Text: text, CreatedAt: at, WallTime: now})
	if err != nil {
		return expansion.Entry{}, err
	}
	if err := m.persistContent(ctx, s); err != nil {
		return expansion.Entry{}, err
	}
	return en, nil
}

func (m *SessionManager) RemovePoint(ctx context.Context, id string) error {
	s, err := m.current()
	if err != nil {
		return err
	}
	if err := s.engine.Remove(id); err != nil {
		return err
	}
	if err := m.persistContent(ctx, s); err != nil {
		return err
	}
	return m.persistExpansions(ctx, s)
}

func (m *SessionManager) BeginEdit(id string) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	return s.engine.BeginEdit(id)
}

func (m *SessionManager) EditPoint(id, text string) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	return s.engine.EditLevel(id, text)
}

func (m *SessionManager) CommitEdit(ctx context.Context, id string) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	en, err := s.engine.CommitEdit(id)
	if err != nil {
		return expansion.Entry{}, err
	}
	if err := m.persistContent(ctx, s); err != nil {
		return expansion.Entry{}, err
	}
	if err := m.persistExpansions(ctx, s); err != nil {
		return expansion.Entry{}, err
	}
	return en, nil
}

// ExpandPoint raises one bullet a level. With stream set, fragments are passed to
// onFragment as they arrive in addition to the session event stream.
func (m *SessionManager) ExpandPoint(ctx context.Context, id string, stream bool, onFragment func(string) error) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	corpus := m.corpus(ctx)
	transcript := s.transcriptCopy()

	var en expansion.Entry
	if stream {
		en, err = s.engine.StreamSingle(ctx, id, transcript, corpus, onFragment)
	} else {
		en, err = s.engine.ExpandSingle(ctx, id, transcript, corpus)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrUpstream) {
			m.deps.Notifier.Notify(realtime.LevelError, "Expansion failed", "The model request failed. Please try again.")
		}
		return expansion.Entry{}, err
	}
	if err := m.persistExpansions(ctx, s); err != nil {
		return expansion.Entry{}, err
	}
	return en, nil
}

func (m *SessionManager) ReducePoint(id string) (expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return expansion.Entry{}, err
	}
	return s.engine.ReduceSingle(id)
}

type ExpandAllResult struct {
	Entries []expansion.Entry `json:"entries"`
	// Failed lists the bullets whose request failed and were reverted.
	Failed []string `json:"failed,omitempty"`
}

// ExpandAll raises every bullet one level. Partial failure is reported in the result and
// as a warning notification, not as an error.
func (m *SessionManager) ExpandAll(ctx context.Context) (ExpandAllResult, error) {
	s, err := m.current()
	if err != nil {
		return ExpandAllResult{}, err
	}
	if err := m.bump(ctx, s, repos.CounterExpand); err != nil {
		return ExpandAllResult{}, err
	}

	var res ExpandAllResult
	err = s.engine.ExpandAll(ctx, s.transcriptCopy(), m.corpus(ctx))
	var be *expansion.BatchError
	switch {
	case errors.As(err, &be):
		res.Failed = be.FailedIDs()
		m.deps.Notifier.Notify(realtime.LevelWarning, "Some notes could not be expanded",
			fmt.Sprintf("%d of %d notes failed. Please try again.", len(be.Items), be.Attempted))
	case err != nil:
		return ExpandAllResult{}, err
	}
	if err := m.persistExpansions(ctx, s); err != nil {
		return ExpandAllResult{}, err
	}
	res.Entries = s.engine.Snapshot()
	return res, nil
}

func (m *SessionManager) ReduceAll(ctx context.Context) ([]expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	if err := m.bump(ctx, s, repos.CounterExpand); err != nil {
		return nil, err
	}
	return s.engine.ReduceAll(), nil
}

func (m *SessionManager) Reorder(ctx context.Context, from, to int) ([]expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	if err := s.engine.Reorder(from, to); err != nil {
		return nil, err
	}
	if err := m.persistContent(ctx, s); err != nil {
		return nil, err
	}
	return s.engine.Snapshot(), nil
}

func (m *SessionManager) SortByTime(ctx context.Context) ([]expansion.Entry, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	if err := m.bump(ctx, s, repos.CounterTime); err != nil {
		return nil, err
	}
	entries := s.engine.SortByTime()
	if err := m.persistContent(ctx, s); err != nil {
		return nil, err
	}
	return entries, nil
}

// Observe feeds a player state report to the playback tracker.
func (m *SessionManager) Observe(mediaTime float64, playing bool) (types.PlaybackCounters, error) {
	s, err := m.current()
	if err != nil {
		return types.PlaybackCounters{}, err
	}
	s.tracker.Observe(mediaTime, playing)
	return s.tracker.Counters(), nil
}

func (m *SessionManager) Pause() (types.PlaybackCounters, error) {
	s, err := m.current()
	if err != nil {
		return types.PlaybackCounters{}, err
	}
	s.tracker.Pause()
	return s.tracker.Counters(), nil
}
