package notedir

import (
	"os"
	"strings"
)

// Count returns the number of regular files under the note root. Notes and
// uploads share the root, so both count against the capacity ceiling.
// In-flight temporary files carry a dot prefix and are skipped.
func (s *Store) Count() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		count++
	}

	return count, nil
}
