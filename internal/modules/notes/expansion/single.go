package expansion

import (
	"context"

	"github.com/yungbote/noteeline-backend/internal/config"
	types "github.com/yungbote/noteeline-backend/internal/domain/notes"
)

// ExpandSingle raises one bullet a level. At most one single-point expansion may be in
// flight per session. If the next level already exists it is shown without a request.
func (e *Engine) ExpandSingle(ctx context.Context, id string, transcript []types.TranscriptSegment, corpus []types.Example) (Entry, error) {
	return e.single(ctx, id, false, nil, transcript, corpus)
}

// StreamSingle is ExpandSingle with a streamed request. Fragments accumulate in the entry's
// pending buffer and are passed to onFragment as they are applied; the buffer becomes the new
// level on completion and is discarded on error.
func (e *Engine) StreamSingle(ctx context.Context, id string, transcript []types.TranscriptSegment, corpus []types.Example, onFragment func(fragment string) error) (Entry, error) {
	return e.single(ctx, id, true, onFragment, transcript, corpus)
}

func (e *Engine) single(ctx context.Context, id string, stream bool, onFragment func(string) error, transcript []types.TranscriptSegment, corpus []types.Example) (Entry, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return Entry{}, ErrClosed
	}
	if e.singleInFlight {
		e.mu.Unlock()
		return Entry{}, ErrGestureInFlight
	}
	en := e.findLocked(id)
	if en == nil {
		e.mu.Unlock()
		return Entry{}, ErrEntryNotFound
	}
	if en.State == Expanding {
		e.mu.Unlock()
		return Entry{}, ErrEntryBusy
	}
	before := en.Display()
	if en.Level+1 < len(en.History) {
		en.Level++
		e.rippleLocked(en, before)
		out := en.clone()
		e.mu.Unlock()
		e.notify(Change{Kind: ChangeEntry, Entry: out})
		e.notifyThemes()
		return out, nil
	}
	j := e.beginLocked(en, before)
	e.singleInFlight = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.singleInFlight = false
		e.mu.Unlock()
	}()

	if err := e.run(ctx, j, config.PurposeExpandSingle, stream, onFragment, transcript, corpus); err != nil {
		return Entry{}, err
	}
	out, ok := e.Get(id)
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return out, nil
}

// ReduceSingle lowers one bullet a level, floored at 0.
func (e *Engine) ReduceSingle(id string) (Entry, error) {
	e.mu.Lock()
	en := e.findLocked(id)
	if en == nil {
		e.mu.Unlock()
		return Entry{}, ErrEntryNotFound
	}
	changed := e.reduceLocked(en)
	out := en.clone()
	e.mu.Unlock()
	if changed {
		e.notify(Change{Kind: ChangeEntry, Entry: out})
		e.notifyThemes()
	}
	return out, nil
}
