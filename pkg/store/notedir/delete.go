package notedir

import (
	"os"

	"webnote/pkg/log"
	"webnote/pkg/noteid"
	"webnote/pkg/store"
)

// Delete removes a note. A missing note is treated as already deleted.
func (s *Store) Delete(id string) error {
	if !noteid.Validate(id) {
		return store.InvalidNameError{Name: id}
	}

	if err := os.Remove(s.notePath(id)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		log.Error().Err(err).Str("note", id).Msg("Failed to delete note")
		return err
	}

	log.Info().Str("note", id).Msg("Note deleted")
	return nil
}
