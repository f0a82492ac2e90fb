package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

func TestSystemPromptOmitsFewShotWithoutCompleteExamples(t *testing.T) {
	lib := Embedded()
	base, err := lib.SystemPrompt(nil)
	if err != nil {
		t.Fatalf("SystemPrompt: %v", err)
	}
	if strings.Contains(base, "Here are examples") {
		t.Fatalf("empty corpus should omit few-shot block:\n%s", base)
	}
	incomplete := []types.Example{
		{Note: "", Keypoints: []string{"a"}},
		{Note: "n", Keypoints: []string{"a", ""}},
	}
	got, err := lib.SystemPrompt(incomplete)
	if err != nil {
		t.Fatalf("SystemPrompt: %v", err)
	}
	if got != base {
		t.Fatalf("incomplete examples should render like an empty corpus:\n%s", got)
	}
}

func TestSystemPromptRendersCompleteExamplesInOrder(t *testing.T) {
	corpus := []types.Example{
		{Note: "First note", Keypoints: []string{"k1", "k2"}, Transcript: "tr one"},
		{Note: "skip me", Keypoints: nil},
		{Note: "Second note", Keypoints: []string{"k3"}, Transcript: "tr two"},
	}
	got, err := Embedded().SystemPrompt(corpus)
	if err != nil {
		t.Fatalf("SystemPrompt: %v", err)
	}
	if !strings.Contains(got, "Keypoints: k1, k2") || !strings.Contains(got, "Note: First note") {
		t.Fatalf("missing first example:\n%s", got)
	}
	if strings.Contains(got, "skip me") {
		t.Fatalf("incomplete example rendered:\n%s", got)
	}
	if strings.Index(got, "First note") > strings.Index(got, "Second note") {
		t.Fatalf("examples out of corpus order:\n%s", got)
	}
}

func TestExpansionPrompt(t *testing.T) {
	p, err := Embedded().ExpansionPrompt(nil, "ATP synthase", "the enzyme.spins")
	if err != nil {
		t.Fatalf("ExpansionPrompt: %v", err)
	}
	if p.System == "" {
		t.Fatalf("system prompt missing")
	}
	if !strings.Contains(p.User, "Keypoint: ATP synthase") || !strings.Contains(p.User, "Transcript: ...the enzyme.spins...") {
		t.Fatalf("user turn:\n%s", p.User)
	}
	if !strings.HasSuffix(p.User, "Note:") {
		t.Fatalf("user turn should end with Note:\n%s", p.User)
	}
}

func TestThemeAndQuizPrompts(t *testing.T) {
	lib := Embedded()
	p, err := lib.ThemePrompt([]string{"alpha", "beta"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.User, "1. alpha\n2. beta") {
		t.Fatalf("theme user turn:\n%s", p.User)
	}
	q, err := lib.QuizPrompt([]string{"alpha"}, "a summary")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(q.User, "a summary") || !strings.Contains(q.User, "alpha") {
		t.Fatalf("quiz user turn:\n%s", q.User)
	}
	s, err := lib.PointSummaryPrompt([]string{"alpha", "beta"}, "lecture")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(s.User, "alpha\nbeta") {
		t.Fatalf("point summary user turn:\n%s", s.User)
	}
}

func TestParseRejectsMissingPrompt(t *testing.T) {
	_, err := Parse([]byte("prompts:\n  - name: expansion\n    user: hi\n"))
	if err == nil {
		t.Fatalf("expected error for incomplete document")
	}
}

func TestLoadFallsBackOnMalformedOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(p, []byte("prompts: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(promptsOverrideEnv, p)
	if lib := Load(nil); lib != Embedded() {
		t.Fatalf("expected embedded fallback")
	}
}
