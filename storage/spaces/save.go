package spaces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"golang.org/x/sync/errgroup"

	"spaces-storage/storage"
)

// Resizer renders an encoded image down to fit the given bounds. A bound of
// zero leaves that axis unconstrained.
type Resizer interface {
	Resize(data []byte, maxWidth, maxHeight int) ([]byte, error)
}

// ErrResizerUnavailable means a raster image was saved on a store built
// without a resizer.
var ErrResizerUnavailable = errors.New("image resizer not configured")

// rasterTypes are the only content types that go through the derivative
// pipeline. Everything else is stored verbatim.
var rasterTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// DefaultImageSizes maps derivative names to their maximum widths.
var DefaultImageSizes = map[string]int{
	"xs": 100,
	"s":  300,
	"m":  500,
	"l":  1000,
}

const cacheControl = "max-age=31536000"

// Save uploads the file behind image.Path and returns its public URL.
//
// Raster images fan out into one webp derivative per configured size, all
// sharing a base name that is unique within targetDir; the returned URL
// addresses the largest derivative. Any other file is stored verbatim under
// its sanitized name. An empty targetDir lands the file under the configured
// subfolder in a year/month directory.
func (s *Store) Save(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	if targetDir == "" {
		targetDir = defaultTargetDir(s.cfg.Subfolder, time.Now())
	}
	if rasterTypes[image.Type] {
		return s.saveRaster(ctx, image, targetDir)
	}
	return s.saveRaw(ctx, image, targetDir)
}

func (s *Store) saveRaster(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	if s.resizer == nil {
		return "", ErrResizerUnavailable
	}

	sizes := s.imageSizes()
	largestName, largestWidth := largestProfile(sizes)
	token := "_w" + strconv.Itoa(largestWidth)
	stem, _ := storage.SplitName(storage.SanitizeFileName(image.Name))

	var (
		original []byte
		baseName string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := os.ReadFile(image.Path)
		if err != nil {
			return fmt.Errorf("read upload: %w", err)
		}
		original = data
		return nil
	})
	g.Go(func() error {
		name, err := s.uniqueFileName(gctx, stem+token+".webp", targetDir)
		if err != nil {
			return err
		}
		baseName = name
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	// One goroutine per size. The first failure cancels the rest; derivatives
	// already uploaded stay behind, and the host never learns their URLs.
	g, gctx = errgroup.WithContext(ctx)
	for name, width := range sizes {
		g.Go(func() error {
			resized, err := s.resizer.Resize(original, width, 0)
			if err != nil {
				return fmt.Errorf("resize %s: %w", name, err)
			}
			key := joinKey(targetDir, variantName(baseName, token, name))
			if err := s.putObject(gctx, key, resized, "image/webp"); err != nil {
				return fmt.Errorf("upload %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	largestKey := joinKey(targetDir, variantName(baseName, token, largestName))
	return urlFor(s.cfg.SpaceURL, largestKey), nil
}

func (s *Store) saveRaw(ctx context.Context, image storage.Image, targetDir string) (string, error) {
	data, err := os.ReadFile(image.Path)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	fileName, err := s.uniqueFileName(ctx, storage.SanitizeFileName(image.Name), targetDir)
	if err != nil {
		return "", err
	}

	contentType := image.Type
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	key := joinKey(targetDir, fileName)
	if err := s.putObject(ctx, key, data, contentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", fileName, err)
	}
	return urlFor(s.cfg.SpaceURL, key), nil
}

func (s *Store) putObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ACL:          s3types.ObjectCannedACLPublicRead,
		CacheControl: aws.String(cacheControl),
		ContentType:  aws.String(contentType),
	})
	return err
}

func (s *Store) imageSizes() map[string]int {
	if len(s.sizes) > 0 {
		return s.sizes
	}
	return DefaultImageSizes
}

// largestProfile picks the widest derivative; ties break on name so the
// returned URL is stable across runs.
func largestProfile(sizes map[string]int) (name string, width int) {
	for n, w := range sizes {
		if w > width || (w == width && (name == "" || n < name)) {
			name, width = n, w
		}
	}
	return name, width
}
