// internal/storage/sanitize.go
package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	invalidChars   = regexp.MustCompile(`[^\w\s.-]`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	underscoreRuns = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename normalizes an uploaded filename into a safe object key
// segment. The result contains only word characters, dots, dashes and
// single underscores, all lowercase. Applying it twice yields the same
// result.
func SanitizeFilename(name string) string {
	s := invalidChars.ReplaceAllString(name, "")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	s = underscoreRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	s = strings.ToLower(s)
	if s == "" {
		return fmt.Sprintf("file_%d", time.Now().Unix())
	}
	return s
}
