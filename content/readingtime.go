package content

import "strings"

// wordsPerMinute matches the editor's estimate; not locale-aware.
const wordsPerMinute = 200

// ReadingTime estimates minutes to read content, rounding up and never
// returning less than 1.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
