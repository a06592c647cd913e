package storage

import (
	"path"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9@._-]+`)

// SanitizeFileName lowercases a name and collapses anything outside a small
// safe set to a dash. Slashes are part of the unsafe set, so the result can
// never escape its target directory regardless of backend.
func SanitizeFileName(name string) string {
	return unsafeChars.ReplaceAllString(strings.ToLower(name), "-")
}

// SplitName separates a file name from its extension.
func SplitName(name string) (stem, ext string) {
	ext = path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}
