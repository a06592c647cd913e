// Package server assembles the HTTP surface of the demo host.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spaces-storage/internal/config"
	"spaces-storage/internal/media"
	"spaces-storage/internal/metrics"
	"spaces-storage/internal/server/middleware"
	"spaces-storage/internal/server/respond"
	"spaces-storage/storage"
)

// ContentPrefix is the route under which stored media is served back, the
// same place a CMS host would mount it.
const ContentPrefix = "/content/images"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config, store storage.Adapter) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	media.NewHandler(store).RegisterRoutes(api)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	content := http.StripPrefix(ContentPrefix, store.Serve())
	r.GET(ContentPrefix+"/*filepath", gin.WrapH(content))
	r.HEAD(ContentPrefix+"/*filepath", gin.WrapH(content))

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
