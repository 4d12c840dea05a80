package render

import "strings"

// IsCLIClient reports whether the User-Agent belongs to a terminal client
// that should receive the raw note body instead of the editor page. The
// match is an exact prefix: "curl" and "Wget" identify themselves that way,
// and browsers never do.
func IsCLIClient(userAgent string) bool {
	return strings.HasPrefix(userAgent, "curl") || strings.HasPrefix(userAgent, "Wget")
}
