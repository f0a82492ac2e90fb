// Package prompts renders the model prompts used by note expansion, themes, quizzes and summaries.
package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

const promptsOverrideEnv = "NOTEELINE_PROMPTS_YAML"

//go:embed prompts.yaml
var promptsFS embed.FS

// Prompt is a rendered system/user pair.
type Prompt struct {
	Name    string
	Version int
	System  string
	User    string
}

func (p Prompt) Key() string {
	return p.Name + "@v" + strconv.Itoa(p.Version)
}

type yamlDoc struct {
	Version int          `yaml:"version"`
	Prompts []yamlPrompt `yaml:"prompts"`
}

type yamlPrompt struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
	System  string `yaml:"system"`
	User    string `yaml:"user"`
}

type compiled struct {
	name    PromptName
	version int
	system  *template.Template
	user    *template.Template
}

// Library holds compiled prompt templates.
type Library struct {
	templates map[PromptName]compiled
}

var funcs = template.FuncMap{"join": strings.Join}

// Parse compiles a prompts YAML document. Every known prompt name must be present.
func Parse(data []byte) (*Library, error) {
	var doc yamlDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	lib := &Library{templates: map[PromptName]compiled{}}
	for _, p := range doc.Prompts {
		name := PromptName(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, errors.New("prompt name is required")
		}
		if _, dup := lib.templates[name]; dup {
			return nil, fmt.Errorf("duplicate prompt: %s", name)
		}
		version := p.Version
		if version <= 0 {
			version = 1
		}
		sysT, err := template.New("system").Funcs(funcs).Option("missingkey=zero").Parse(p.System)
		if err != nil {
			return nil, fmt.Errorf("%s system template parse: %w", name, err)
		}
		userT, err := template.New("user").Funcs(funcs).Option("missingkey=zero").Parse(p.User)
		if err != nil {
			return nil, fmt.Errorf("%s user template parse: %w", name, err)
		}
		lib.templates[name] = compiled{name: name, version: version, system: sysT, user: userT}
	}
	for _, name := range allPromptNames {
		if _, ok := lib.templates[name]; !ok {
			return nil, fmt.Errorf("missing prompt: %s", name)
		}
	}
	return lib, nil
}

// Embedded returns the library compiled from the built-in prompts.yaml.
func Embedded() *Library {
	embeddedOnce.Do(func() {
		data, err := promptsFS.ReadFile("prompts.yaml")
		if err != nil {
			panic(fmt.Sprintf("prompts: embedded yaml: %v", err))
		}
		lib, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("prompts: embedded yaml: %v", err))
		}
		embeddedLib = lib
	})
	return embeddedLib
}

var (
	embeddedOnce sync.Once
	embeddedLib  *Library
)

// Load reads the override file named by NOTEELINE_PROMPTS_YAML when set. A missing or
// malformed override falls back to the embedded prompts.
func Load(log *logger.Logger) *Library {
	path := strings.TrimSpace(os.Getenv(promptsOverrideEnv))
	if path == "" {
		return Embedded()
	}
	data, err := os.ReadFile(path)
	if err == nil {
		var lib *Library
		if lib, err = Parse(data); err == nil {
			return lib
		}
	}
	if log != nil {
		log.Warn("prompts: override load failed; using embedded prompts", "path", path, "error", err)
	}
	return Embedded()
}

func (l *Library) render(name PromptName, in Input) (Prompt, error) {
	t, ok := l.templates[name]
	if !ok {
		return Prompt{}, fmt.Errorf("unknown prompt: %s", name)
	}
	out := Prompt{Name: string(name), Version: t.version}
	var b bytes.Buffer
	if err := t.system.Execute(&b, in); err != nil {
		return Prompt{}, fmt.Errorf("%s system render: %w", name, err)
	}
	out.System = strings.TrimSpace(b.String())
	b.Reset()
	if err := t.user.Execute(&b, in); err != nil {
		return Prompt{}, fmt.Errorf("%s user render: %w", name, err)
	}
	out.User = strings.TrimSpace(b.String())
	return out, nil
}

// CompleteExamples keeps only the examples that can be shown to the model, in corpus order.
func CompleteExamples(corpus []types.Example) []types.Example {
	out := make([]types.Example, 0, len(corpus))
	for _, ex := range corpus {
		if ex.Complete() {
			out = append(out, ex)
		}
	}
	return out
}

// SystemPrompt renders the expansion system instruction. The few-shot block appears only
// when the corpus holds at least one complete example.
func (l *Library) SystemPrompt(corpus []types.Example) (string, error) {
	p, err := l.render(PromptExpansionSystem, Input{Examples: CompleteExamples(corpus)})
	if err != nil {
		return "", err
	}
	return p.System, nil
}

// ExpansionPrompt renders one expansion request: the system instruction plus a user turn
// carrying the prior-level text and its aligned transcript.
func (l *Library) ExpansionPrompt(corpus []types.Example, priorLevelText, alignedTranscript string) (Prompt, error) {
	system, err := l.SystemPrompt(corpus)
	if err != nil {
		return Prompt{}, err
	}
	p, err := l.render(PromptExpansion, Input{Keypoint: priorLevelText, Transcript: alignedTranscript})
	if err != nil {
		return Prompt{}, err
	}
	p.System = system
	return p, nil
}

// ThemePrompt numbers the display texts from 1 in the order given.
func (l *Library) ThemePrompt(points []string) (Prompt, error) {
	return l.render(PromptTheme, Input{Points: NumberedPoints(points)})
}

func (l *Library) QuizPrompt(points []string, summary string) (Prompt, error) {
	return l.render(PromptQuiz, Input{Points: strings.Join(points, "\n"), Summary: summary})
}

func (l *Library) PointSummaryPrompt(points []string, transcriptSummary string) (Prompt, error) {
	return l.render(PromptPointSummary, Input{Points: strings.Join(points, "\n"), Summary: transcriptSummary})
}

// NumberedPoints renders "1. a\n2. b".
func NumberedPoints(points []string) string {
	lines := make([]string, len(points))
	for i, p := range points {
		lines[i] = strconv.Itoa(i+1) + ". " + p
	}
	return strings.Join(lines, "\n")
}
