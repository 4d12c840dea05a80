package render

import "strings"

// htmlEscaper applies the five entity substitutions, ampersand included,
// in a single pass so already-escaped text is escaped again rather than
// passed through.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes a note body for interpolation into the editor page.
func EscapeHTML(input string) string {
	return htmlEscaper.Replace(input)
}
