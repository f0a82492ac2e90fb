package expansion

import (
	"errors"
	"fmt"
	"strings"

	apperrors "github.com/yungbote/noteeline-backend/internal/pkg/errors"
)

var (
	ErrEntryNotFound   = fmt.Errorf("ledger entry: %w", apperrors.ErrNotFound)
	ErrGestureInFlight = fmt.Errorf("a single-point expansion is already in flight: %w", apperrors.ErrConflict)
	ErrEntryBusy       = fmt.Errorf("entry has a request in flight: %w", apperrors.ErrConflict)
	ErrNotEditable     = fmt.Errorf("entry is not in edit mode: %w", apperrors.ErrConflict)
	ErrIndexOutOfRange = fmt.Errorf("index out of range: %w", apperrors.ErrInvalidArgument)
	ErrClosed          = fmt.Errorf("session closed: %w", apperrors.ErrUnavailable)
)

// errStale aborts a stream whose ticket no longer matches the ledger.
var errStale = errors.New("stale expansion result")

// ItemError is one failed entry of a batch expansion.
type ItemError struct {
	EntryID string
	Err     error
}

// BatchError aggregates per-entry failures of ExpandAll. Entries not listed were committed.
type BatchError struct {
	Attempted int
	Items     []ItemError
}

func (e *BatchError) Error() string {
	ids := make([]string, len(e.Items))
	for i, it := range e.Items {
		ids[i] = it.EntryID
	}
	return fmt.Sprintf("expand all: %d of %d entries failed (%s)", len(e.Items), e.Attempted, strings.Join(ids, ", "))
}

func (e *BatchError) Unwrap() []error {
	out := make([]error, len(e.Items))
	for i, it := range e.Items {
		out[i] = it.Err
	}
	return out
}

// FailedIDs lists the entries that were reverted.
func (e *BatchError) FailedIDs() []string {
	out := make([]string, len(e.Items))
	for i, it := range e.Items {
		out[i] = it.EntryID
	}
	return out
}
