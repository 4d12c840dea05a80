// Package notedir implements note and upload storage as plain files under
// a single root directory.
package notedir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPerm     = 0750
	filePerm    = 0600
	tempPattern = ".write-*"
)

// Store implements store.NoteStore and store.UploadStore on a flat
// directory. Notes live at <root>/<slug>; uploads live alongside them
// under timestamped names.
type Store struct {
	root      string
	fileLimit int   // number of files before note creation is refused
	sizeLimit int64 // byte ceiling for a single note body
}

// New creates the root directory if needed and returns a Store over it.
func New(root string, fileLimit int, sizeLimit int64) (*Store, error) {
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("creating note root: %w", err)
	}

	return &Store{
		root:      root,
		fileLimit: fileLimit,
		sizeLimit: sizeLimit,
	}, nil
}

// notePath returns the on-disk path for a validated slug.
func (s *Store) notePath(id string) string {
	return filepath.Join(s.root, id)
}
