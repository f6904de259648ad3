package sequence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^\w\-_]`)

// SafeName converts free text to a filesystem-safe token: spaces become
// underscores, quotes and colons are dropped, everything else non-word is
// stripped.
func SafeName(text string) string {
	text = strings.ReplaceAll(text, " ", "_")
	text = strings.ReplaceAll(text, "'", "")
	text = strings.ReplaceAll(text, ":", "")
	return unsafeChars.ReplaceAllString(text, "")
}

// UniquePath returns a path in dir for base+ext that does not collide with an
// existing file. Two copies of the same title in one tote get _2, _3 suffixes
// rather than overwriting each other.
func UniquePath(dir, base, ext string) string {
	path := filepath.Join(dir, base+ext)
	if !exists(path) {
		return path
	}
	for counter := 2; ; counter++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, counter, ext))
		if !exists(path) {
			return path
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
