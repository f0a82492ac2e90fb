package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/noteeline-backend/internal/clients/media"
	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/data/repos"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/inference/gateway"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/align"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/extract"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/prompts"
	"github.com/yungbote/noteeline-backend/internal/realtime"
)

func (m *SessionManager) complete(ctx context.Context, purpose string, p prompts.Prompt) (string, error) {
	return m.deps.Generator.Complete(ctx, gateway.Call{Purpose: purpose, System: p.System, User: p.User})
}

// GenerateThemes groups the displayed bullets into topics. A response without recognizable
// markup installs an empty theme list.
func (m *SessionManager) GenerateThemes(ctx context.Context) ([]types.ThemeItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	if err := m.bump(ctx, s, repos.CounterTheme); err != nil {
		return nil, err
	}
	p, err := m.deps.Prompts.ThemePrompt(s.engine.DisplayTexts())
	if err != nil {
		return nil, err
	}
	out, err := m.complete(ctx, config.PurposeTheme, p)
	if err != nil {
		m.deps.Notifier.Notify(realtime.LevelError, "Error generating themes", "Please try again.")
		return nil, err
	}
	items := extract.Flatten(extract.Themes(out))
	if len(items) == 0 {
		m.log.Warn("theme markup not recognized", "chars", len(out))
		m.deps.Notifier.Notify(realtime.LevelInfo, "No themes found", "")
	}
	return s.engine.SetThemes(items), nil
}

func (m *SessionManager) EditTheme(i int) ([]types.ThemeItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	return s.engine.EditTheme(i)
}

func (m *SessionManager) ChangeTheme(i int, text string) ([]types.ThemeItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	return s.engine.ChangeTheme(i, text)
}

func (m *SessionManager) CommitTheme(i int) ([]types.ThemeItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	return s.engine.CommitTheme(i)
}

func (m *SessionManager) ReorderThemes(from, to int) ([]types.ThemeItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	return s.engine.ReorderThemes(from, to)
}

// Quiz asks for multiple choice questions over the displayed bullets and the transcript summary.
func (m *SessionManager) Quiz(ctx context.Context) ([]types.QuizItem, error) {
	s, err := m.current()
	if err != nil {
		return nil, err
	}
	p, err := m.deps.Prompts.QuizPrompt(s.engine.DisplayTexts(), s.noteCopy().GeneratedSummary)
	if err != nil {
		return nil, err
	}
	out, err := m.complete(ctx, config.PurposeQuiz, p)
	if err != nil {
		m.deps.Notifier.Notify(realtime.LevelError, "Error generating quiz", "Please try again.")
		return nil, err
	}
	items := extract.Quizzes(out)
	if len(items) == 0 {
		m.log.Warn("quiz markup not recognized", "chars", len(out))
	}
	return items, nil
}

// TranscriptSummary regenerates the summary of the attached transcript.
func (m *SessionManager) TranscriptSummary(ctx context.Context) (string, error) {
	s, err := m.current()
	if err != nil {
		return "", err
	}
	transcript := s.transcriptCopy()
	if len(transcript) == 0 {
		return "", ErrTranscriptRequired
	}
	return m.summarizeTranscript(ctx, s, transcript)
}

func (m *SessionManager) summarizeTranscript(ctx context.Context, s *session, transcript []types.TranscriptSegment) (string, error) {
	if m.deps.Media == nil {
		return "", errors.New("media client not configured")
	}
	summary, err := m.deps.Media.Summary(ctx, align.FullText(transcript))
	if err != nil {
		m.deps.Notifier.Notify(realtime.LevelInfo, "Error generating summary. Please try again...", "")
		return "", err
	}
	if err := m.deps.Notes.UpdateSummary(ctx, nil, s.noteCopy().ID, summary); err != nil {
		return "", err
	}
	s.update(func(n *types.Note) { n.GeneratedSummary = summary })
	return summary, nil
}

// PointSummary summarizes the displayed bullets, using the transcript summary as context.
func (m *SessionManager) PointSummary(ctx context.Context) (string, error) {
	s, err := m.current()
	if err != nil {
		return "", err
	}
	p, err := m.deps.Prompts.PointSummaryPrompt(s.engine.DisplayTexts(), s.noteCopy().GeneratedSummary)
	if err != nil {
		return "", err
	}
	out, err := m.complete(ctx, config.PurposePointSummary, p)
	if err != nil {
		m.deps.Notifier.Notify(realtime.LevelInfo, "Error generating summary. Please try again...", "")
		return "", err
	}
	out = strings.TrimSpace(out)
	if err := m.deps.Notes.UpdatePointSummary(ctx, nil, s.noteCopy().ID, out); err != nil {
		return "", err
	}
	s.update(func(n *types.Note) { n.GeneratedSummaryP = out })
	return out, nil
}

type AttachResult struct {
	VideoID  string `json:"video_id"`
	Segments int    `json:"segments"`
	Summary  string `json:"summary,omitempty"`
	// Warning is set when the video was attached without a usable transcript or summary.
	Warning string `json:"warning,omitempty"`
}

// AttachVideo links a YouTube video to the open note and ingests its transcript. A video
// without captions is attached anyway and reported as a warning.
func (m *SessionManager) AttachVideo(ctx context.Context, link string) (AttachResult, error) {
	s, err := m.current()
	if err != nil {
		return AttachResult{}, err
	}
	id, err := media.VideoID(link)
	if err != nil {
		return AttachResult{}, err
	}
	if m.deps.Media == nil {
		return AttachResult{}, errors.New("media client not configured")
	}
	noteID := s.noteCopy().ID
	if err := m.deps.Notes.UpdateVideo(ctx, nil, noteID, id); err != nil {
		return AttachResult{}, err
	}
	s.update(func(n *types.Note) { n.VideoID = id })
	res := AttachResult{VideoID: id}

	segs, err := m.deps.Media.Transcript(ctx, id)
	switch {
	case errors.Is(err, media.ErrNoTranscript):
		res.Warning = "The provided YouTube video does not have a transcription or has it disabled!"
		m.deps.Notifier.Notify(realtime.LevelWarning, "Warning", res.Warning)
		return res, nil
	case err != nil:
		m.deps.Notifier.Notify(realtime.LevelError, "Error", "Error in transcribing your YouTube video!")
		return AttachResult{}, err
	}
	if err := m.deps.Notes.UpdateTranscript(ctx, nil, noteID, segs); err != nil {
		return AttachResult{}, err
	}
	s.mu.Lock()
	s.transcript = segs
	s.mu.Unlock()
	res.Segments = len(segs)

	summary, err := m.summarizeTranscript(ctx, s, segs)
	if err != nil {
		m.log.Warn("transcript summary failed", "video_id", id, "error", err)
		res.Warning = "Transcript attached, but the summary could not be generated."
		return res, nil
	}
	res.Summary = summary
	return res, nil
}
