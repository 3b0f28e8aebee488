package cleaner

import "unicode/utf8"

// EstimateTokens approximates the LLM token count of text as one token per
// three runes, never less than one for non-empty text.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	if n < 3 {
		return 1
	}
	return n / 3
}
