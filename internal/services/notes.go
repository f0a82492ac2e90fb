package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/noteeline-backend/internal/data/kv"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/export"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

var ErrEmptyName = fmt.Errorf("note name is empty: %w", apperrors.ErrInvalidArgument)

func (m *SessionManager) CreateNote(ctx context.Context, name string, micronote bool) (NoteInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return NoteInfo{}, ErrEmptyName
	}
	n, err := m.deps.Notes.Create(ctx, nil, &types.Note{Name: name, Micronote: micronote})
	if err != nil {
		return NoteInfo{}, err
	}
	m.log.Info("note created", "note", name, "micronote", micronote)
	return noteInfo(*n), nil
}

func (m *SessionManager) ListNotes(ctx context.Context) ([]NoteInfo, error) {
	notes, err := m.deps.Notes.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]NoteInfo, len(notes))
	for i, n := range notes {
		out[i] = noteInfo(*n)
	}
	return out, nil
}

func (m *SessionManager) RenameNote(ctx context.Context, oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	n, err := m.deps.Notes.GetByName(ctx, nil, oldName)
	if err != nil {
		return err
	}
	if err := m.deps.Notes.Rename(ctx, nil, n.ID, newName); err != nil {
		return err
	}
	if s, err := m.current(); err == nil && s.noteCopy().ID == n.ID {
		s.update(func(n *types.Note) { n.Name = newName })
	}
	return nil
}

// DeleteNote removes a note; deleting the open note closes its session.
func (m *SessionManager) DeleteNote(ctx context.Context, name string) error {
	n, err := m.deps.Notes.GetByName(ctx, nil, name)
	if err != nil {
		return err
	}
	if s, err := m.current(); err == nil && s.noteCopy().ID == n.ID {
		m.Close()
	}
	if err := m.deps.Notes.Delete(ctx, nil, n.ID); err != nil {
		return err
	}
	return m.buffers.Reset(ctx, name)
}

type OnboardingInput struct {
	ID         string   `json:"id"`
	Note       string   `json:"note"`
	Keypoints  []string `json:"keypoints"`
	Transcript string   `json:"transcript"`
}

// AddOnboarding stores a worked example for few-shot prompting. At most
// types.MaxOnboardingSections are kept; a known id replaces its section.
func (m *SessionManager) AddOnboarding(ctx context.Context, in OnboardingInput) (types.Example, error) {
	sec := &types.OnboardingSection{ID: strings.TrimSpace(in.ID), Note: in.Note, Transcript: in.Transcript}
	if err := sec.SetKeypoints(in.Keypoints); err != nil {
		return types.Example{}, err
	}
	saved, err := m.deps.Onboardings.Upsert(ctx, nil, sec)
	if err != nil {
		return types.Example{}, err
	}
	return saved.Example()
}

func (m *SessionManager) ListOnboardings(ctx context.Context) ([]OnboardingInput, error) {
	sections, err := m.deps.Onboardings.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := make([]OnboardingInput, 0, len(sections))
	for _, sec := range sections {
		kps, err := sec.KeypointList()
		if err != nil {
			return nil, err
		}
		out = append(out, OnboardingInput{ID: sec.ID, Note: sec.Note, Keypoints: kps, Transcript: sec.Transcript})
	}
	return out, nil
}

// SetAPIKey stores the user's model credential; an empty key clears it.
func (m *SessionManager) SetAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return m.deps.KV.Delete(ctx, kv.KeyAPIKey)
	}
	return m.deps.KV.Set(ctx, kv.KeyAPIKey, key)
}

func (m *SessionManager) HasAPIKey(ctx context.Context) (bool, error) {
	v, ok, err := m.deps.KV.Get(ctx, kv.KeyAPIKey)
	return ok && v != "", err
}

type ExportFile struct {
	FileName string          `json:"file_name"`
	Artifact export.Artifact `json:"artifact"`
}

// Export builds the session log of the open note.
func (m *SessionManager) Export() (ExportFile, error) {
	s, err := m.current()
	if err != nil {
		return ExportFile{}, err
	}
	n := s.noteCopy()
	return ExportFile{
		FileName: export.FileName(n.Name),
		Artifact: export.Build(export.Input{
			Entries:    s.engine.Snapshot(),
			Transcript: s.transcriptCopy(),
			Stats:      n.Stats(),
			Counters:   s.tracker.Counters(),
			SummaryT:   n.GeneratedSummary,
			SummaryP:   n.GeneratedSummaryP,
			VideoID:    n.VideoID,
		}),
	}, nil
}

// ExportStored builds the log of a persisted note without opening it. Only level-0 text
// survives persistence, so every bullet exports with its original text and no playback counters.
func (m *SessionManager) ExportStored(ctx context.Context, name string) (ExportFile, error) {
	if s, err := m.current(); err == nil && s.noteCopy().Name == name {
		return m.Export()
	}
	n, err := m.deps.Notes.GetByName(ctx, nil, name)
	if err != nil {
		return ExportFile{}, err
	}
	points, err := n.Points()
	if err != nil {
		return ExportFile{}, err
	}
	transcript, err := n.TranscriptSegments()
	if err != nil {
		return ExportFile{}, err
	}
	ledger := expansion.New(nil, nil, expansion.Options{Clock: m.deps.Clock})
	entries := ledger.Load(points)
	ledger.Close()
	return ExportFile{
		FileName: export.FileName(n.Name),
		Artifact: export.Build(export.Input{
			Entries:    entries,
			Transcript: transcript,
			Stats:      n.Stats(),
			SummaryT:   n.GeneratedSummary,
			SummaryP:   n.GeneratedSummaryP,
			VideoID:    n.VideoID,
		}),
	}, nil
}
