package utils

import (
	"strings"
)

// JoinPath joins content names into a display path using forward slashes.
// Slashes around each name are stripped and empty names skipped, and the
// result always starts with "/":
//   - no names = "/"
//   - one name = "/{name}"
//   - nested names = "/{name}/{child}" etc.
func JoinPath(parts ...string) string {
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part != "" {
			cleaned = append(cleaned, part)
		}
	}

	if len(cleaned) == 0 {
		return "/"
	}

	return "/" + strings.Join(cleaned, "/")
}

// SplitList splits a comma separated list, trimming blanks and dropping
// empty entries
func SplitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
