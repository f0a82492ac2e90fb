package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/kv"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/expansion"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/playback"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/prompts"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/platform/clock"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

var (
	ErrNoSession          = fmt.Errorf("no note is open: %w", apperrors.ErrConflict)
	ErrTranscriptRequired = fmt.Errorf("note has no transcript: %w", apperrors.ErrConflict)
)

// MediaClient fetches transcripts and transcript summaries.
type MediaClient interface {
	Transcript(ctx context.Context, videoID string) ([]types.TranscriptSegment, error)
	Summary(ctx context.Context, transcript string) (string, error)
}

type SessionDeps struct {
	Notes       repos.NoteRepo
	Onboardings repos.OnboardingRepo
	KV          kv.Store
	Generator   expansion.Generator
	Prompts     *prompts.Library
	Media       MediaClient
	Notifier    SessionNotifier
	Expansion   config.ExpansionConfig
	Clock       clock.Clock
	Log         *logger.Logger
}

// SessionManager owns the single active note session. Opening a note closes the previous
// session; results still in flight for it are dropped.
type SessionManager struct {
	deps    SessionDeps
	log     *logger.Logger
	buffers kv.StreamBuffers

	mu  sync.Mutex
	cur *session
}

type session struct {
	engine  *expansion.Engine
	tracker *playback.Tracker

	mu         sync.Mutex
	note       types.Note
	transcript []types.TranscriptSegment
}

func (s *session) noteCopy() types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.note
}

func (s *session) transcriptCopy() []types.TranscriptSegment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.TranscriptSegment(nil), s.transcript...)
}

func (s *session) update(fn func(n *types.Note)) {
	s.mu.Lock()
	fn(&s.note)
	s.mu.Unlock()
}

func NewSessionManager(deps SessionDeps) *SessionManager {
	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.KV == nil {
		deps.KV = kv.NewMemory("")
	}
	if deps.Notifier == nil {
		deps.Notifier = NewSessionNotifier(nil)
	}
	return &SessionManager{
		deps:    deps,
		log:     deps.Log.With("service", "SessionManager"),
		buffers: kv.StreamBuffers{Store: deps.KV},
	}
}

type NoteInfo struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Micronote         bool      `json:"micronote"`
	VideoID           string    `json:"video_id,omitempty"`
	GeneratedSummary  string    `json:"generated_summary"`
	GeneratedSummaryP string    `json:"generated_summary_p"`
	RecordingStart    int64     `json:"recording_start"`
}

func noteInfo(n types.Note) NoteInfo {
	return NoteInfo{
		ID:                n.ID,
		Name:              n.Name,
		Micronote:         n.Micronote,
		VideoID:           n.VideoID,
		GeneratedSummary:  n.GeneratedSummary,
		GeneratedSummaryP: n.GeneratedSummaryP,
		RecordingStart:    n.RecordingStart,
	}
}

type SessionView struct {
	Note          NoteInfo               `json:"note"`
	Entries       []expansion.Entry      `json:"entries"`
	Themes        []types.ThemeItem      `json:"themes"`
	Stats         types.ButtonStats      `json:"button_stats"`
	Counters      types.PlaybackCounters `json:"counters"`
	CurrentTime   float64                `json:"current_time"`
	HasTranscript bool                   `json:"has_transcript"`
}

func (m *SessionManager) view(s *session) SessionView {
	n := s.noteCopy()
	s.mu.Lock()
	hasTranscript := len(s.transcript) > 0
	s.mu.Unlock()
	return SessionView{
		Note:          noteInfo(n),
		Entries:       s.engine.Snapshot(),
		Themes:        s.engine.Themes(),
		Stats:         n.Stats(),
		Counters:      s.tracker.Counters(),
		CurrentTime:   s.tracker.CurrentTime(),
		HasTranscript: hasTranscript,
	}
}

// Open makes name the active note: the ledger is rebuilt from the persisted level-0 text,
// playback counters start from zero and the note's stream buffers are cleared.
func (m *SessionManager) Open(ctx context.Context, name string) (SessionView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, err := m.deps.Notes.GetByName(ctx, nil, name)
	if err != nil {
		return SessionView{}, err
	}
	points, err := note.Points()
	if err != nil {
		return SessionView{}, fmt.Errorf("decode note content: %w", err)
	}
	transcript, err := note.TranscriptSegments()
	if err != nil {
		return SessionView{}, fmt.Errorf("decode note transcript: %w", err)
	}

	if m.cur != nil {
		m.cur.engine.Close()
		m.log.Info("session closed", "note", m.cur.noteCopy().Name)
		m.cur = nil
	}

	s := &session{note: *note, transcript: transcript, tracker: playback.New(playback.DefaultEpsilon)}
	s.engine = expansion.New(m.deps.Generator, m.deps.Prompts, expansion.Options{
		WindowMs:       m.deps.Expansion.Window.Duration.Milliseconds(),
		StreamDelay:    m.deps.Expansion.StreamDelay.Duration,
		StreamBatch:    m.deps.Expansion.StreamBatch,
		MaxConcurrency: m.deps.Expansion.MaxConcurrency,
		Clock:          m.deps.Clock,
		Log:            m.deps.Log,
		OnChange:       m.onChange(s),
	})
	s.engine.Load(points)

	start := clock.NowMillis(m.deps.Clock)
	if err := m.deps.Notes.UpdateRecordingStart(ctx, nil, note.ID, start); err != nil {
		return SessionView{}, err
	}
	s.note.RecordingStart = start
	if err := m.buffers.Reset(ctx, note.Name); err != nil {
		m.log.Warn("reset stream buffers failed", "note", note.Name, "error", err)
	}

	m.cur = s
	m.log.Info("session opened", "note", note.Name, "points", len(points))
	m.deps.Notifier.SessionOpened(note.Name)
	return m.view(s), nil
}

// Close ends the active session, if any.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur != nil {
		m.cur.engine.Close()
		m.cur = nil
	}
}

func (m *SessionManager) current() (*session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return nil, ErrNoSession
	}
	return m.cur, nil
}

func (m *SessionManager) isCurrent(s *session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur == s
}

// Snapshot is the full state of the active session.
func (m *SessionManager) Snapshot() (SessionView, error) {
	s, err := m.current()
	if err != nil {
		return SessionView{}, err
	}
	return m.view(s), nil
}

func (m *SessionManager) onChange(s *session) func(expansion.Change) {
	return func(c expansion.Change) {
		switch c.Kind {
		case expansion.ChangeFragment:
			m.deps.Notifier.Fragment(c.Entry.ID, c.Fragment)
			m.mirrorBuffers(s)
		case expansion.ChangeEntry:
			m.deps.Notifier.EntryChanged(c.Entry)
			if c.Entry.State == expansion.Stable {
				m.mirrorBuffers(s)
			}
		case expansion.ChangeThemes:
			m.deps.Notifier.ThemesChanged(c.Themes)
		}
	}
}

// mirrorBuffers writes every bullet's pending stream text, in ledger order, to the KV store.
func (m *SessionManager) mirrorBuffers(s *session) {
	if !m.isCurrent(s) {
		return
	}
	entries := s.engine.Snapshot()
	buffers := make([]string, len(entries))
	for i, en := range entries {
		buffers[i] = en.Pending
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.buffers.Save(ctx, s.noteCopy().Name, buffers); err != nil {
		m.log.Warn("mirror stream buffers failed", "error", err)
	}
}

func (m *SessionManager) persistContent(ctx context.Context, s *session) error {
	return m.deps.Notes.UpdateContent(ctx, nil, s.noteCopy().ID, s.engine.Canonical())
}

func (m *SessionManager) persistExpansions(ctx context.Context, s *session) error {
	return m.deps.Notes.UpdateExpansions(ctx, nil, s.noteCopy().ID, s.engine.Expansions())
}

func (m *SessionManager) bump(ctx context.Context, s *session, counter string) error {
	if err := m.deps.Notes.IncrementCounter(ctx, nil, s.noteCopy().ID, counter); err != nil {
		return err
	}
	s.update(func(n *types.Note) {
		switch counter {
		case repos.CounterTheme:
			n.ThemeCount++
		case repos.CounterExpand:
			n.ExpandCount++
		case repos.CounterTime:
			n.TimeCount++
		}
	})
	return nil
}

// corpus loads the onboarding examples for few-shot prompts. A broken section is skipped.
func (m *SessionManager) corpus(ctx context.Context) []types.Example {
	if m.deps.Onboardings == nil {
		return nil
	}
	sections, err := m.deps.Onboardings.List(ctx, nil)
	if err != nil {
		m.log.Warn("load onboarding corpus failed", "error", err)
		return nil
	}
	out := make([]types.Example, 0, len(sections))
	for _, sec := range sections {
		ex, err := sec.Example()
		if err != nil {
			m.log.Warn("skip onboarding section", "id", sec.ID, "error", err)
			continue
		}
		out = append(out, ex)
	}
	return out
}

// StreamBuffers reads back the mirrored stream buffers of the open note.
func (m *SessionManager) StreamBuffers(ctx context.Context) ([]string, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	return m.buffers.Load(ctx, s.noteCopy().Name)
}
