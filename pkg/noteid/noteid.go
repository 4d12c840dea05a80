// Package noteid validates note slugs and mints random identifiers.
package noteid

import (
	"math/rand/v2"
)

// Alphabet is the fixed character set for generated identifiers. Digits and
// letters that are easily misread or misheard (0/o, 1/l/i, 6/b, 8, u/v and
// all uppercase) are excluded so an id survives being read aloud or typed
// back.
const Alphabet = "234579abcdefghjkmnpqrstwxyz"

// DefaultLength is the identifier length used for redirect targets;
// 27^5 gives roughly 14.3 million ids.
const DefaultLength = 5

// maxSlugLength is the longest slug accepted as a note identifier.
const maxSlugLength = 64

// Validate reports whether candidate is a well-formed note slug:
// 1 to 64 characters from [A-Za-z0-9_-]. Anything else must never
// reach storage.
func Validate(candidate string) bool {
	if len(candidate) == 0 || len(candidate) > maxSlugLength {
		return false
	}

	for i := 0; i < len(candidate); i++ {
		if !isSlugChar(candidate[i]) {
			return false
		}
	}

	return true
}

func isSlugChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-'
}

// New returns a random identifier of the given length drawn uniformly from
// Alphabet. The id is not checked against existing notes: a collision hands
// the visitor an existing note instead of a fresh one, which is an accepted
// risk at this namespace size rather than a guarded condition.
func New(length int) string {
	id := make([]byte, length)
	for i := range id {
		id[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return string(id)
}
