package notedir

import (
	"os"
	"path/filepath"

	"webnote/pkg/log"
	"webnote/pkg/noteid"
	"webnote/pkg/store"
)

// Write replaces the note body, creating the note when absent. The body is
// written to a temporary file in the same directory and renamed into place,
// so a concurrent Read never observes a torn note.
func (s *Store) Write(id string, content string) error {
	if !noteid.Validate(id) {
		return store.InvalidNameError{Name: id}
	}

	if int64(len(content)) > s.sizeLimit {
		log.Warn().Str("note", id).
			Int("size", len(content)).
			Int64("limit", s.sizeLimit).
			Msg("Note body over size limit")
		return store.FileTooLargeError{Size: int64(len(content)), Limit: s.sizeLimit}
	}

	// The capacity ceiling applies to new notes only; overwrites of
	// existing notes always go through.
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		count, err := s.Count()
		if err != nil {
			// Count failures do not block the write.
			log.Error().Err(err).Msg("Counting files failed")
			count = 0
		}
		if count >= s.fileLimit {
			log.Error().Int("count", count).Int("limit", s.fileLimit).Msg("File limit reached")
			return store.TooManyFilesError{Count: count, Limit: s.fileLimit}
		}
	}

	if err := writeFileAtomic(s.notePath(id), []byte(content), filePerm); err != nil {
		log.Error().Err(err).Str("note", id).Msg("Failed to write note")
		return err
	}

	log.Debug().Str("note", id).Int("size", len(content)).Msg("Note written")
	return nil
}

// writeFileAtomic writes data to a temporary file next to path, syncs it,
// and renames it into place. The temporary file is removed on any failure.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
