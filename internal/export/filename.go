package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "extractions"
	}
	return s
}

// BuildFilename returns the attachment name for an export.
// Format: {client}[_{document}]_{YYYY-MM-DD}.{csv|xlsx}
func BuildFilename(clientID, docName string, format Format, now time.Time) string {
	base := clientID
	if docName != "" {
		base += "_" + strings.TrimSuffix(docName, "."+lastExt(docName))
	}
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(base), now.Format("2006-01-02"), format)
}

func lastExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return ""
}
