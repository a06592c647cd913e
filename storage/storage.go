// Package storage defines the contract a content-management host uses to
// delegate media file persistence to a storage backend.
package storage

import (
	"context"
	"net/http"
)

// Image is a media file handed over by the host for saving. Path points at
// the host-managed temporary copy on disk; Name and Type carry the original
// file name and the declared media type.
type Image struct {
	Path string
	Name string
	Type string
}

// ReadOptions selects a stored object by the canonical URL a previous Save
// returned.
type ReadOptions struct {
	Path string
}

// Adapter is the five-operation contract every storage backend implements.
//
// Exists and Delete collapse all failures, including transport errors, into
// false; callers that need the cause must use Read. Save returns the
// canonical URL of the stored object, the only handle the host keeps.
type Adapter interface {
	Exists(ctx context.Context, fileName, targetDir string) bool
	Save(ctx context.Context, image Image, targetDir string) (string, error)
	Delete(ctx context.Context, fileName, targetDir string) bool
	Read(ctx context.Context, opts ReadOptions) ([]byte, error)
	Serve() http.Handler
}
