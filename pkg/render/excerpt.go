package render

// ExcerptLength is the number of characters of the note body used for the
// page's meta description.
const ExcerptLength = 150

// Excerpt returns the first length characters of text, with "..." appended
// when text is longer. Counting is per rune, so multibyte bodies are never
// cut mid-character.
func Excerpt(text string, length int) string {
	runes := []rune(text)
	if len(runes) <= length {
		return text
	}

	return string(runes[:length]) + "..."
}
