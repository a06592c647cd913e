// Package local stores media on the local filesystem. It exists for
// development setups without a Space; files are kept verbatim and no
// derivatives are produced.
package local

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"spaces-storage/storage"
)

const (
	defaultURLPrefix  = "/content/images"
	maxUniqueAttempts = 100
)

// Store implements storage.Adapter on a directory tree.
type Store struct {
	root      string
	urlPrefix string
}

var _ storage.Adapter = (*Store)(nil)

// New creates a store rooted at root. Saved files are addressed under
// urlPrefix, which defaults to /content/images.
func New(root, urlPrefix string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("local store root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir root: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = defaultURLPrefix
	}
	return &Store{root: abs, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Exists reports whether a regular file answers to fileName inside targetDir.
func (s *Store) Exists(ctx context.Context, fileName, targetDir string) bool {
	if ctx.Err() != nil {
		return false
	}
	return s.exists(fileName, targetDir)
}

// Save copies the file behind image.Path into targetDir under its sanitized
// name, suffixing -1, -2, ... on collision, and returns the file's URL. An
// empty targetDir lands the file in a year/month directory.
func (s *Store) Save(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if targetDir == "" {
		targetDir = time.Now().UTC().Format("2006/01")
	}

	data, err := os.ReadFile(image.Path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	fileName, err := s.uniqueFileName(storage.SanitizeFileName(image.Name), targetDir)
	if err != nil {
		return "", err
	}
	fullPath, err := s.resolve(fileName, targetDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.urlPrefix + "/" + path.Join(targetDir, fileName), nil
}

// Delete removes fileName from targetDir and reports success.
func (s *Store) Delete(ctx context.Context, fileName, targetDir string) bool {
	if ctx.Err() != nil {
		return false
	}
	fullPath, err := s.resolve(fileName, targetDir)
	if err != nil {
		return false
	}
	return os.Remove(fullPath) == nil
}

// Read fetches the bytes behind a URL this store minted. URLs outside the
// configured prefix fail with storage.ErrNotManaged.
func (s *Store) Read(ctx context.Context, opts storage.ReadOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := s.urlPrefix + "/"
	if !strings.HasPrefix(opts.Path, prefix) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotManaged, opts.Path)
	}
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(opts.Path, prefix)))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid storage path")
	}
	return os.ReadFile(filepath.Join(s.root, clean))
}

// Serve exposes the store's directory tree.
func (s *Store) Serve() http.Handler {
	return http.FileServer(http.Dir(s.root))
}

func (s *Store) uniqueFileName(fileName, targetDir string) (string, error) {
	if !s.exists(fileName, targetDir) {
		return fileName, nil
	}
	stem, ext := storage.SplitName(fileName)
	for i := 1; i < maxUniqueAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !s.exists(candidate, targetDir) {
			return candidate, nil
		}
	}
	return "", storage.ErrNoUniqueKey
}

func (s *Store) exists(fileName, targetDir string) bool {
	fullPath, err := s.resolve(fileName, targetDir)
	if err != nil {
		return false
	}
	info, err := os.Stat(fullPath)
	return err == nil && !info.IsDir()
}

func (s *Store) resolve(fileName, targetDir string) (string, error) {
	clean := filepath.Clean(filepath.Join(filepath.FromSlash(targetDir), fileName))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path")
	}
	return filepath.Join(s.root, clean), nil
}
