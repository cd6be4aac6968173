package content

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InsertImage splices image Markdown for an uploaded file into buffer at the
// given cursor offset and returns the new buffer together with the cursor
// offset right after the inserted markup. The offset is clamped into the
// buffer; alt text is the filename with its extension stripped. The caller
// threads the offset explicitly; there is no hidden cursor state.
func InsertImage(buffer string, offset int, url, filename string) (string, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(buffer) {
		offset = len(buffer)
	}

	alt := strings.TrimSuffix(filename, filepath.Ext(filename))
	snippet := fmt.Sprintf("\n\n![%s](%s)\n\n", alt, url)

	return buffer[:offset] + snippet + buffer[offset:], offset + len(snippet)
}
