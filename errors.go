package linesel

import "errors"

var (
	// ErrInvalidArgument indicates an empty index set, a nil function, a
	// value count that does not match the selection, or a malformed
	// permutation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange indicates a selection index outside the
	// surface's current line list.
	ErrIndexOutOfRange = errors.New("line index out of range")
	// ErrEmptyBuffer indicates a rewind of an empty snapshot buffer.
	ErrEmptyBuffer = errors.New("snapshot buffer is empty")
	// ErrEmptyClipboard indicates a removal from an empty clipboard.
	ErrEmptyClipboard = errors.New("clipboard is empty")
)
