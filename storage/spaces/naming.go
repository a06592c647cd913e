package spaces

import (
	"strings"
	"time"
)

// variantName swaps the width token of a probed base name for a size name.
// The token sits between the stem and any collision suffix, so the last
// occurrence is always the one that was appended.
func variantName(base, token, size string) string {
	i := strings.LastIndex(base, token)
	if i < 0 {
		return base
	}
	return base[:i] + "_" + size + base[i+len(token):]
}

func joinKey(dir, name string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// urlFor concatenates without normalizing, so a SpaceURL carrying a trailing
// slash yields a double slash in every address it mints. Hosts that store
// such URLs get them back unchanged, which keeps Read and Delete working.
func urlFor(spaceURL, key string) string {
	return spaceURL + "/" + key
}

func keyFromURL(spaceURL, rawURL string) (string, bool) {
	prefix := spaceURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, prefix), true
}

// defaultTargetDir is where saves land when the host does not pick a
// directory: the configured subfolder plus the current year and month.
func defaultTargetDir(subfolder string, now time.Time) string {
	return joinKey(subfolder, now.UTC().Format("2006/01"))
}
