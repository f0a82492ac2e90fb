// Package expansion owns the per-note expansion ledger: every bullet's level history,
// its edit log, in-flight model requests and the theme list that mirrors the bullets.
package expansion

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/noteeline-backend/internal/config"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
	"github.com/yungbote/noteeline-backend/internal/inference/gateway"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/align"
	"github.com/yungbote/noteeline-backend/internal/modules/notes/prompts"
	"github.com/yungbote/noteeline-backend/internal/platform/clock"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

type Generator interface {
	Complete(ctx context.Context, call gateway.Call) (string, error)
	Stream(ctx context.Context, call gateway.Call, onFragment func(fragment string) error) (string, error)
}

type Prompter interface {
	ExpansionPrompt(corpus []types.Example, priorLevelText, alignedTranscript string) (prompts.Prompt, error)
}

type ChangeKind string

const (
	ChangeEntry    ChangeKind = "entry"
	ChangeFragment ChangeKind = "fragment"
	ChangeThemes   ChangeKind = "themes"
)

// Change is delivered to Options.OnChange after the ledger lock is released.
type Change struct {
	Kind     ChangeKind
	Entry    Entry
	Fragment string
	Themes   []types.ThemeItem
}

type Options struct {
	// WindowMs is the windowed-alignment span. Defaults to align.DefaultWindowMs.
	WindowMs int64
	// StreamDelay is the pause after each applied stream fragment.
	StreamDelay time.Duration
	// StreamBatch streams ExpandAll requests instead of waiting for whole completions.
	StreamBatch bool
	// MaxConcurrency caps concurrent ExpandAll requests. Defaults to 8.
	MaxConcurrency int

	Clock    clock.Clock
	Log      *logger.Logger
	OnChange func(Change)
	// NewID mints entry ids. Defaults to uuid.NewString.
	NewID func() string
}

type Engine struct {
	gen     Generator
	prompts Prompter
	opts    Options
	log     *logger.Logger

	mu             sync.Mutex
	entries        []*Entry
	themes         []types.ThemeItem
	closed         bool
	singleInFlight bool
}

func New(gen Generator, p Prompter, opts Options) *Engine {
	if opts.WindowMs <= 0 {
		opts.WindowMs = align.DefaultWindowMs
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 8
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{gen: gen, prompts: p, opts: opts, log: log.With("component", "expansion")}
}

// Load replaces the ledger with fresh level-0 entries built from persisted points.
func (e *Engine) Load(points []types.NotePoint) []Entry {
	e.mu.Lock()
	e.entries = make([]*Entry, 0, len(points))
	for _, p := range points {
		e.entries = append(e.entries, e.newEntry(p))
	}
	e.themes = nil
	out := e.snapshotLocked()
	e.mu.Unlock()
	return out
}

func (e *Engine) newEntry(p types.NotePoint) *Entry {
	return &Entry{
		ID:        e.opts.NewID(),
		History:   []string{p.Text},
		EditLog:   [][]types.Edit{{{Text: p.Text, At: p.WallTime}}},
		CreatedAt: p.CreatedAt,
		WallTime:  p.WallTime,
	}
}

// Append adds a new bullet at the end of the ledger.
func (e *Engine) Append(p types.NotePoint) (Entry, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Entry{}, ErrClosed
	}
	en := e.newEntry(p)
	e.entries = append(e.entries, en)
	out := en.clone()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeEntry, Entry: out})
	return out, nil
}

// Remove drops a bullet; any in-flight result for it is discarded on arrival.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexLocked(id)
	if i < 0 {
		return ErrEntryNotFound
	}
	e.entries = append(e.entries[:i], e.entries[i+1:]...)
	for j := range e.themes {
		if e.themes[j].EntryID == id {
			e.themes[j].EntryID = ""
		}
	}
	return nil
}

func (e *Engine) Get(id string) (Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if en := e.findLocked(id); en != nil {
		return en.clone(), true
	}
	return Entry{}, false
}

// Snapshot is a deep copy of the ledger in display order.
func (e *Engine) Snapshot() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() []Entry {
	out := make([]Entry, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.clone()
	}
	return out
}

// Canonical is the persisted form of the ledger: level-0 text only.
func (e *Engine) Canonical() []types.NotePoint {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]types.NotePoint, len(e.entries))
	for i, en := range e.entries {
		out[i] = types.NotePoint{Text: en.Original(), CreatedAt: en.CreatedAt, WallTime: en.WallTime}
	}
	return out
}

// Expansions pairs each expanded bullet's original text with its most recent expansion.
func (e *Engine) Expansions() []types.Expansion {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := []types.Expansion{}
	for _, en := range e.entries {
		if len(en.History) > 1 {
			out = append(out, types.Expansion{Point: en.Original(), Expansion: en.History[len(en.History)-1]})
		}
	}
	return out
}

// DisplayTexts is the currently shown text of every bullet, in order.
func (e *Engine) DisplayTexts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.Display()
	}
	return out
}

// Close marks the engine dead. Every result that arrives afterwards is dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
}

type job struct {
	t      ticket
	prior  string
	point  types.NotePoint
	before string
}

// ExpandAll raises every stable bullet one level. Bullets whose next level already exists
// advance locally; the rest get one model request each, fanned out concurrently. A failed
// request reverts only its own bullet. The returned *BatchError lists the reverted bullets.
func (e *Engine) ExpandAll(ctx context.Context, transcript []types.TranscriptSegment, corpus []types.Example) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	var (
		jobs    []job
		changed []Entry
	)
	for _, en := range e.entries {
		if en.State == Expanding {
			continue
		}
		before := en.Display()
		if en.Level+1 < len(en.History) {
			en.Level++
			e.rippleLocked(en, before)
			changed = append(changed, en.clone())
			continue
		}
		jobs = append(jobs, e.beginLocked(en, before))
	}
	e.mu.Unlock()
	for _, c := range changed {
		e.notify(Change{Kind: ChangeEntry, Entry: c})
	}
	if len(changed) > 0 {
		e.notifyThemes()
	}
	if len(jobs) == 0 {
		return nil
	}

	var (
		g      errgroup.Group
		failMu sync.Mutex
		failed []ItemError
	)
	g.SetLimit(e.opts.MaxConcurrency)
	for _, j := range jobs {
		g.Go(func() error {
			err := e.run(ctx, j, config.PurposeExpand, e.opts.StreamBatch, nil, transcript, corpus)
			if err != nil {
				failMu.Lock()
				failed = append(failed, ItemError{EntryID: j.t.entryID, Err: err})
				failMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == 0 {
		return nil
	}
	e.log.Warn("expand all: some entries failed", "failed", len(failed), "attempted", len(jobs))
	return &BatchError{Attempted: len(jobs), Items: failed}
}

// ReduceAll lowers every bullet one level, floored at 0. A bullet with a request in flight
// returns to the level it had before the request and the result is discarded.
func (e *Engine) ReduceAll() []Entry {
	e.mu.Lock()
	var changed []Entry
	for _, en := range e.entries {
		if e.reduceLocked(en) {
			changed = append(changed, en.clone())
		}
	}
	e.mu.Unlock()
	for _, c := range changed {
		e.notify(Change{Kind: ChangeEntry, Entry: c})
	}
	if len(changed) > 0 {
		e.notifyThemes()
	}
	return e.Snapshot()
}

func (e *Engine) beginLocked(en *Entry, before string) job {
	prior := en.History[en.Level]
	en.Level++
	en.State = Expanding
	en.Pending = ""
	en.gen++
	return job{
		t:      ticket{entryID: en.ID, gen: en.gen, level: en.Level},
		prior:  prior,
		point:  types.NotePoint{Text: prior, CreatedAt: en.CreatedAt, WallTime: en.WallTime},
		before: before,
	}
}

func (e *Engine) reduceLocked(en *Entry) bool {
	before := en.Display()
	switch {
	case en.State == Expanding:
		en.Level--
		en.State = Stable
		en.Pending = ""
		en.gen++
	case en.Level > 0:
		en.Level--
	default:
		return false
	}
	e.rippleLocked(en, before)
	return true
}

// run performs one request and reconciles its outcome with the ledger.
func (e *Engine) run(ctx context.Context, j job, purpose string, stream bool, onFragment func(string) error, transcript []types.TranscriptSegment, corpus []types.Example) error {
	aligned := align.Windowed(j.point, transcript, e.opts.WindowMs)
	p, err := e.prompts.ExpansionPrompt(corpus, j.prior, align.Join(aligned.Transcript))
	if err != nil {
		e.revert(j)
		return err
	}
	call := gateway.Call{Purpose: purpose, System: p.System, User: p.User}

	var text string
	if stream {
		text, err = e.gen.Stream(ctx, call, func(fragment string) error {
			if !e.applyFragment(j.t, fragment) {
				return errStale
			}
			if onFragment != nil {
				if err := onFragment(fragment); err != nil {
					return err
				}
			}
			e.pause(ctx)
			return nil
		})
	} else {
		text, err = e.gen.Complete(ctx, call)
	}

	if errors.Is(err, errStale) {
		e.log.Debug("expansion result dropped", "entry", j.t.entryID, "reason", "stale")
		return nil
	}
	if err != nil {
		e.revert(j)
		return err
	}
	e.commit(j, text)
	return nil
}

func (e *Engine) validLocked(t ticket) *Entry {
	if e.closed {
		return nil
	}
	en := e.findLocked(t.entryID)
	if en == nil || en.State != Expanding || en.gen != t.gen || en.Level != t.level {
		return nil
	}
	return en
}

func (e *Engine) applyFragment(t ticket, fragment string) bool {
	e.mu.Lock()
	en := e.validLocked(t)
	if en == nil {
		e.mu.Unlock()
		return false
	}
	en.Pending += fragment
	id := en.ID
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeFragment, Entry: Entry{ID: id}, Fragment: fragment})
	return true
}

func (e *Engine) commit(j job, text string) {
	e.mu.Lock()
	en := e.validLocked(j.t)
	if en == nil {
		e.mu.Unlock()
		e.log.Debug("expansion result dropped", "entry", j.t.entryID, "reason", "stale")
		return
	}
	en.History = append(en.History, text)
	en.EditLog = append(en.EditLog, []types.Edit{{Text: text, At: clock.NowMillis(e.opts.Clock)}})
	en.Pending = ""
	en.State = Stable
	e.rippleLocked(en, j.before)
	out := en.clone()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeEntry, Entry: out})
	e.notifyThemes()
}

func (e *Engine) revert(j job) {
	e.mu.Lock()
	en := e.validLocked(j.t)
	if en == nil {
		e.mu.Unlock()
		return
	}
	en.Level--
	en.Pending = ""
	en.State = Stable
	out := en.clone()
	e.mu.Unlock()
	e.notify(Change{Kind: ChangeEntry, Entry: out})
}

func (e *Engine) pause(ctx context.Context) {
	if e.opts.StreamDelay <= 0 {
		return
	}
	t := time.NewTimer(e.opts.StreamDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (e *Engine) notify(c Change) {
	if e.opts.OnChange != nil {
		e.opts.OnChange(c)
	}
}

func (e *Engine) findLocked(id string) *Entry {
	if i := e.indexLocked(id); i >= 0 {
		return e.entries[i]
	}
	return nil
}

func (e *Engine) indexLocked(id string) int {
	for i, en := range e.entries {
		if en.ID == id {
			return i
		}
	}
	return -1
}
