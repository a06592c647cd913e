// Package bootstrap builds the application dependency graph.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"spaces-storage/imageproc"
	"spaces-storage/internal/config"
	"spaces-storage/internal/server"
	"spaces-storage/internal/telemetry"
	"spaces-storage/storage"
	"spaces-storage/storage/local"
	"spaces-storage/storage/spaces"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	Store  storage.Adapter
}

// Build prepares shared dependencies and wires the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Config: cfg,
		Router: server.NewRouter(cfg, store),
		Store:  store,
	}, nil
}

// buildStore picks the storage backend. The spaces store reads its
// credentials from SPACES_* variables; disabling IMAGE_RESIZE builds it
// without a resizer, so raster uploads are refused rather than stored
// unresized.
func buildStore(ctx context.Context, cfg config.Config) (storage.Adapter, error) {
	switch cfg.StorageBackend {
	case "spaces":
		opts := []spaces.Option{
			spaces.WithErrorHandler(func(op string, err error) {
				telemetry.Error("spaces operation failed", map[string]any{
					"op":    op,
					"error": err.Error(),
				})
			}),
		}
		if cfg.ImageResize {
			opts = append(opts, spaces.WithResizer(imageproc.New()))
		}
		store, err := spaces.New(ctx, spaces.Config{}, opts...)
		if err != nil {
			return nil, fmt.Errorf("spaces store: %w", err)
		}
		return store, nil
	default:
		store, err := local.New(cfg.LocalStoreDir, server.ContentPrefix)
		if err != nil {
			return nil, fmt.Errorf("local store: %w", err)
		}
		return store, nil
	}
}
