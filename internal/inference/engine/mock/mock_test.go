package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/noteeline-backend/internal/inference/engine"
)

func TestGenerateExpansion(t *testing.T) {
	out, err := New().GenerateText(context.Background(), "m", []engine.Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "Expand.\nTranscript: ...x...\nKeypoint: krebs cycle\nNote:"},
	}, engine.GenerateOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "krebs cycle") {
		t.Fatalf("out=%q", out)
	}
}

func TestStreamMatchesGenerate(t *testing.T) {
	e := &Engine{ChunkSize: 3}
	msgs := []engine.Message{{Role: "user", Content: "Keypoint: abcdefghij"}}
	want, _ := e.GenerateText(context.Background(), "m", msgs, engine.GenerateOptions{})
	var b strings.Builder
	n := 0
	full, err := e.StreamText(context.Background(), "m", msgs, engine.GenerateOptions{}, func(d string) error {
		n++
		b.WriteString(d)
		return nil
	})
	if err != nil || full != want || b.String() != want {
		t.Fatalf("full=%q streamed=%q want=%q err=%v", full, b.String(), want, err)
	}
	if n < 2 {
		t.Fatalf("expected several fragments, got %d", n)
	}
}
