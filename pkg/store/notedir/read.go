package notedir

import (
	"os"

	"webnote/pkg/log"
	"webnote/pkg/noteid"
	"webnote/pkg/store"
)

// Read returns the note body.
func (s *Store) Read(id string) (string, error) {
	if !noteid.Validate(id) {
		return "", store.InvalidNameError{Name: id}
	}

	data, err := os.ReadFile(s.notePath(id)) //nolint:gosec // path is derived from a validated slug
	if os.IsNotExist(err) {
		return "", store.FileNotFoundError{Name: id}
	} else if err != nil {
		log.Error().Err(err).Str("note", id).Msg("Failed to read note")
		return "", err
	}

	return string(data), nil
}
