package notes

import "errors"

var (
	ErrNoteNotFound   = errors.New("note not found")
	ErrNoteNotTrashed = errors.New("note is not in the trash")
)
