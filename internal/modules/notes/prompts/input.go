package prompts

import types "github.com/yungbote/noteeline-backend/internal/domain/notes"

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Few-shot corpus, already filtered to complete examples.
	Examples []types.Example
	// Expansion
	Keypoint   string
	Transcript string
	// Theme / quiz / point summary
	Points  string
	Summary string
}
