// Package mock is a deterministic offline engine for development and tests.
package mock

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/noteeline-backend/internal/inference/engine"
)

type Engine struct {
	// ChunkSize is the stream fragment size in bytes.
	ChunkSize int
}

func New() *Engine {
	return &Engine{ChunkSize: 16}
}

var (
	keypointRe = regexp.MustCompile(`(?m)^Keypoint: (.*)$`)
	numberedRe = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
)

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	_ = ctx
	_ = model
	_ = opts

	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			user = messages[i].Content
			break
		}
	}
	switch {
	case strings.TrimSpace(user) == "":
		return "mock: ok", nil
	case keypointRe.MatchString(user):
		kp := strings.TrimSpace(keypointRe.FindStringSubmatch(user)[1])
		return fmt.Sprintf("%s, explained in one sentence.", kp), nil
	case strings.Contains(user, "<Topic"):
		return themeMarkup(numberedRe.FindAllStringSubmatch(user, -1)), nil
	case strings.Contains(user, "<Question>"):
		return quizMarkup(5), nil
	default:
		return fmt.Sprintf("mock: %s", firstLine(user)), nil
	}
}

func (e *Engine) StreamText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions, onDelta func(delta string) error) (string, error) {
	full, err := e.GenerateText(ctx, model, messages, opts)
	if err != nil {
		return "", err
	}
	if onDelta == nil {
		return full, nil
	}
	chunk := e.ChunkSize
	if chunk <= 0 {
		chunk = 16
	}
	for i := 0; i < len(full); i += chunk {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		end := i + chunk
		if end > len(full) {
			end = len(full)
		}
		if err := onDelta(full[i:end]); err != nil {
			return "", err
		}
	}
	return full, nil
}

func themeMarkup(lines [][]string) string {
	var b strings.Builder
	b.WriteString(`<Topic name="Notes">`)
	for _, m := range lines {
		b.WriteString("<p>")
		b.WriteString(strings.TrimSpace(m[1]))
		b.WriteString("</p>")
	}
	b.WriteString("</Topic>")
	return b.String()
}

func quizMarkup(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "<Question>Question %d?</Question>\n", i)
		for _, c := range []string{"A", "B", "C", "D"} {
			fmt.Fprintf(&b, "<Choice>%s</Choice>\n", c)
		}
		b.WriteString("<Answer>A</Answer>\n")
	}
	return b.String()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
