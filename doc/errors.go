package doc

import "errors"

// Sentinel errors returned (wrapped) by the document API. Use errors.Is to
// classify failures.
var (
	// ErrDanglingRef indicates that a reference failed to resolve against the
	// document's current collections. This is always a programming error on
	// the caller's side, never a recoverable runtime state.
	ErrDanglingRef = errors.New("dangling reference")

	// ErrStructure indicates that a mutation would break a tree invariant
	// (wrong parent type, non-sibling range endpoints, appending a child that
	// already has children, popping a non-last collection element).
	ErrStructure = errors.New("structural violation")

	// ErrUnreachable indicates that a node could not be located by walking
	// the tree from the document body.
	ErrUnreachable = errors.New("node unreachable from document root")

	// ErrIncompatibleVersion indicates that a persisted document was written
	// with a schema version this library cannot load.
	ErrIncompatibleVersion = errors.New("incompatible document version")
)
