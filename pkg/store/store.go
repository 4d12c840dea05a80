package store

import (
	"io"
)

// MaxUploadBytes caps a single uploaded file at 100 MiB.
const MaxUploadBytes int64 = 100 << 20

// UploadResult represents the result of storing an uploaded file.
type UploadResult struct {
	Name    string `json:"name"`     // stored name inside the upload area
	IsImage bool   `json:"is_image"` // extension belongs to the image allow-list
}

// NoteStore defines the interface for persisting note bodies keyed by slug.
type NoteStore interface {
	// Read returns the note body.
	// Returns FileNotFoundError if the note doesn't exist.
	Read(id string) (string, error)

	// Write replaces the note body, creating the note when absent. The
	// replacement is atomic: a concurrent Read sees either the old or the
	// new body, never a torn one. Creating a note past the capacity
	// ceiling returns TooManyFilesError; a body over the size ceiling
	// returns FileTooLargeError.
	Write(id string, content string) error

	// Delete removes a note. Deleting an absent note is a no-op.
	Delete(id string) error

	// Exists checks if a note with the given id exists in storage.
	Exists(id string) (bool, error)

	// Count returns the number of notes currently stored.
	Count() (int, error)
}

// UploadStore defines the interface for files uploaded through the editor.
type UploadStore interface {
	// SaveUpload streams reader into the upload area under a timestamped
	// name derived from filename. Uploads over MaxUploadBytes return
	// FileTooLargeError.
	SaveUpload(reader io.Reader, filename string) (*UploadResult, error)

	// ReadUpload resolves a stored name to a path inside the upload area.
	// Names that resolve outside it return InvalidNameError; missing
	// files return FileNotFoundError.
	ReadUpload(name string) (string, error)
}

// FileNotFoundError is returned when trying to access a note or upload
// that doesn't exist.
type FileNotFoundError struct {
	Name string
}

func (e FileNotFoundError) Error() string {
	return "file not found"
}

// FileTooLargeError is returned when a note body or upload exceeds its
// size ceiling.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e FileTooLargeError) Error() string {
	return "file too large"
}

// TooManyFilesError is returned when creating a note would exceed the
// capacity ceiling. Overwrites of existing notes are not affected.
type TooManyFilesError struct {
	Count int
	Limit int
}

func (e TooManyFilesError) Error() string {
	return "too many files"
}

// InvalidNameError is returned when an id or stored name fails validation.
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return "invalid name"
}
