package spaces

import (
	"context"
	"fmt"

	"spaces-storage/storage"
)

const maxUniqueAttempts = 100

// uniqueFileName probes the target directory for a name no object answers
// to, appending -1, -2, ... before the extension until one is free. Probing
// goes through Exists, so an unreachable bucket reads as all names free and
// the subsequent upload surfaces the real error.
func (s *Store) uniqueFileName(ctx context.Context, fileName, targetDir string) (string, error) {
	if !s.Exists(ctx, fileName, targetDir) {
		return fileName, nil
	}
	stem, ext := storage.SplitName(fileName)
	for i := 1; i < maxUniqueAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !s.Exists(ctx, candidate, targetDir) {
			return candidate, nil
		}
	}
	return "", storage.ErrNoUniqueKey
}
