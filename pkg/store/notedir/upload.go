package notedir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webnote/pkg/log"
	"webnote/pkg/store"
)

// imageExts is the extension allow-list used to flag uploads the editor
// inlines as images rather than links.
var imageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"svg":  true,
}

// SaveUpload streams reader to a temporary file and renames it into the
// upload area under a name of the form <unix-ts>_<sanitized original name>.
// Reads stop one byte past store.MaxUploadBytes so oversized uploads are
// rejected without buffering them in memory.
func (s *Store) SaveUpload(reader io.Reader, filename string) (*store.UploadResult, error) {
	stored := fmt.Sprintf("%d_%s", time.Now().Unix(), sanitizeFilename(filename))

	tmp, err := os.CreateTemp(s.root, tempPattern)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create temporary upload file")
		return nil, err
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, io.LimitReader(reader, store.MaxUploadBytes+1))
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		log.Error().Err(err).Str("file", stored).Msg("Failed to store upload")
		return nil, err
	}
	if written > store.MaxUploadBytes {
		tmp.Close()
		os.Remove(tmpName)
		log.Warn().Str("file", stored).Int64("limit", store.MaxUploadBytes).Msg("Upload over size limit")
		return nil, store.FileTooLargeError{Size: written, Limit: store.MaxUploadBytes}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, err
	}

	if err := os.Rename(tmpName, filepath.Join(s.root, stored)); err != nil {
		os.Remove(tmpName)
		log.Error().Err(err).Str("file", stored).Msg("Failed to move upload into place")
		return nil, err
	}

	log.Info().Str("file", stored).Int64("size", written).Msg("Upload stored")
	return &store.UploadResult{Name: stored, IsImage: isImageExt(stored)}, nil
}

// ReadUpload resolves a stored upload name to its on-disk path. Traversal
// sequences are stripped until none remain and the resolved path must stay
// under the note root.
func (s *Store) ReadUpload(name string) (string, error) {
	cleaned := name
	for strings.Contains(cleaned, "../") {
		cleaned = strings.ReplaceAll(cleaned, "../", "")
	}
	if cleaned == "" {
		return "", store.InvalidNameError{Name: name}
	}

	path := filepath.Join(s.root, cleaned)
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", store.InvalidNameError{Name: name}
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", store.FileNotFoundError{Name: name}
	} else if err != nil {
		log.Error().Err(err).Str("file", name).Msg("Failed to stat upload")
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", store.FileNotFoundError{Name: name}
	}

	return path, nil
}

// sanitizeFilename replaces characters that are unsafe in filenames with
// underscores. An empty name falls back to "file".
func sanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)

	if sanitized == "" {
		return "file"
	}

	return sanitized
}

// isImageExt reports whether the stored name carries an image extension.
func isImageExt(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return imageExts[ext]
}
