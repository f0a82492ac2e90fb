// Package media talks to the companion service that fetches YouTube transcripts and
// summarizes them.
package media

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/noteeline-backend/internal/config"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
	"github.com/yungbote/noteeline-backend/internal/pkg/httpx"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

var ErrNoTranscript = fmt.Errorf("video has no transcript or transcripts are disabled: %w", apperrors.ErrNotFound)

// Error wraps every failed collaborator call.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == apperrors.ErrUpstream }

type Client struct {
	transcriptURL string
	summaryURL    string
	http          *http.Client
	retry         httpx.Retry
	log           *logger.Logger
}

func New(cfg config.ServicesConfig, log *logger.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout.Duration}, log)
}

func NewWithHTTPClient(cfg config.ServicesConfig, hc *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		transcriptURL: strings.TrimSpace(cfg.TranscriptURL),
		summaryURL:    strings.TrimSpace(cfg.SummaryURL),
		http:          hc,
		retry:         httpx.Retry{Attempts: 2, Backoff: 500 * time.Millisecond, MaxWait: 5 * time.Second},
		log:           log.With("component", "media"),
	}
}

type transcriptRequest struct {
	YTLink string `json:"ytLink"`
}

type transcriptLine struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript fetches the captions of a video. start and duration arrive in milliseconds.
// A null or empty answer is ErrNoTranscript.
func (c *Client) Transcript(ctx context.Context, videoID string) ([]types.TranscriptSegment, error) {
	const op = "fetch transcript"
	if c.transcriptURL == "" {
		return nil, fmt.Errorf("%s: service url not configured: %w", op, apperrors.ErrUnavailable)
	}
	var lines []transcriptLine
	if err := httpx.PostJSON(ctx, c.http, c.transcriptURL, transcriptRequest{YTLink: WatchURL(videoID)}, &lines, c.retry); err != nil {
		c.log.Warn("transcript request failed", "video_id", videoID, "error", err)
		return nil, &Error{Op: op, Err: err}
	}
	if len(lines) == 0 {
		return nil, ErrNoTranscript
	}
	out := make([]types.TranscriptSegment, len(lines))
	for i, l := range lines {
		out[i] = types.TranscriptSegment{
			Text:       l.Text,
			OffsetMs:   int64(math.Round(l.Start)),
			DurationMs: int64(math.Round(l.Duration)),
		}
	}
	return out, nil
}

type summaryRequest struct {
	Transcript string `json:"transcript"`
}

type summaryResponse struct {
	Response string `json:"response"`
}

func (c *Client) Summary(ctx context.Context, transcript string) (string, error) {
	const op = "fetch summary"
	if c.summaryURL == "" {
		return "", fmt.Errorf("%s: service url not configured: %w", op, apperrors.ErrUnavailable)
	}
	var resp summaryResponse
	if err := httpx.PostJSON(ctx, c.http, c.summaryURL, summaryRequest{Transcript: transcript}, &resp, c.retry); err != nil {
		c.log.Warn("summary request failed", "error", err)
		return "", &Error{Op: op, Err: err}
	}
	return strings.TrimSpace(resp.Response), nil
}
