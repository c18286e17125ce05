package dataset

import "errors"

// Error taxonomy shared by the curation components. Callers wrap these with
// context and test for them with errors.Is.
var (
	// ErrNotFound means a source file or root directory does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDecode means an image could not be read or decoded.
	ErrDecode = errors.New("image decode failed")
	// ErrWrite means writing to the dataset failed; the source is left untouched.
	ErrWrite = errors.New("write failed")
	// ErrMoveConflict means the target directory already holds a file with the
	// same name.
	ErrMoveConflict = errors.New("target already contains item")
)
