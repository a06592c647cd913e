// Package spaces implements the storage contract on top of a DigitalOcean
// Space. Raster images are saved as a family of webp derivatives sharing one
// base name; every other file is stored verbatim. The Space is reached only
// through its S3-compatible API.
package spaces

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"spaces-storage/storage"
)

// Store is a storage.Adapter backed by one Space.
type Store struct {
	client  objectClient
	cfg     Config
	resizer Resizer
	sizes   map[string]int
	onError func(op string, err error)
}

var _ storage.Adapter = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithResizer enables the derivative pipeline for raster images. Without it
// raster saves fail with ErrResizerUnavailable.
func WithResizer(r Resizer) Option {
	return func(s *Store) { s.resizer = r }
}

// WithImageSizes replaces DefaultImageSizes.
func WithImageSizes(sizes map[string]int) Option {
	return func(s *Store) { s.sizes = sizes }
}

// WithErrorHandler observes errors the contract forces the store to swallow,
// such as a failed delete.
func WithErrorHandler(fn func(op string, err error)) Option {
	return func(s *Store) { s.onError = fn }
}

func withClient(c objectClient) Option {
	return func(s *Store) { s.client = c }
}

// New builds a Store from cfg merged with the SPACES_* environment
// variables; explicit cfg fields win.
func New(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	cfg = cfg.withEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Store{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		client, err := newClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.client = client
	}
	return s, nil
}

// Exists reports whether an object answers to fileName inside targetDir.
// Lookup failures read as absence.
func (s *Store) Exists(ctx context.Context, fileName, targetDir string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(joinKey(targetDir, fileName)),
	})
	return err == nil
}

// Delete removes fileName from targetDir and reports success. Only failures
// collapse to false; deleting an absent object succeeds, as the store treats
// it as already gone.
func (s *Store) Delete(ctx context.Context, fileName, targetDir string) bool {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(joinKey(targetDir, fileName)),
	})
	if err != nil {
		s.report("delete", err)
		return false
	}
	return true
}

// Read fetches the bytes behind a URL this store minted. URLs outside the
// Space's public base fail with storage.ErrNotManaged before any network
// call.
func (s *Store) Read(ctx context.Context, opts storage.ReadOptions) ([]byte, error) {
	key, ok := keyFromURL(s.cfg.SpaceURL, opts.Path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotManaged, opts.Path)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Serve streams objects addressed by the request path, resolved under the
// configured subfolder. Any fetch failure renders as 404 so the handler can
// sit on a public route without leaking bucket details.
func (s *Store) Serve() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := joinKey(s.cfg.Subfolder, strings.TrimPrefix(r.URL.Path, "/"))
		out, err := s.client.GetObject(r.Context(), &s3.GetObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			s.report("serve", err)
			http.NotFound(w, r)
			return
		}
		defer out.Body.Close()

		if out.ContentType != nil {
			w.Header().Set("Content-Type", *out.ContentType)
		}
		if out.ContentLength != nil {
			w.Header().Set("Content-Length", strconv.FormatInt(*out.ContentLength, 10))
		}
		if out.CacheControl != nil {
			w.Header().Set("Cache-Control", *out.CacheControl)
		}
		if out.ETag != nil {
			w.Header().Set("ETag", *out.ETag)
		}
		if out.LastModified != nil {
			w.Header().Set("Last-Modified", out.LastModified.UTC().Format(http.TimeFormat))
		}
		if _, err := io.Copy(w, out.Body); err != nil {
			s.report("serve", err)
		}
	})
}

func (s *Store) report(op string, err error) {
	if s.onError != nil {
		s.onError(op, err)
	}
}
