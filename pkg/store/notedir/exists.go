package notedir

import (
	"os"

	"webnote/pkg/noteid"
	"webnote/pkg/store"
)

// Exists checks if a note with the given id exists in storage.
func (s *Store) Exists(id string) (bool, error) {
	if !noteid.Validate(id) {
		return false, store.InvalidNameError{Name: id}
	}

	if _, err := os.Stat(s.notePath(id)); os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	return true, nil
}
