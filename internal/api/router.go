package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"parm-catalog/config"
	"parm-catalog/internal/catalog"
	"parm-catalog/internal/mw"
	"parm-catalog/internal/session"
	"parm-catalog/internal/store"
	"parm-catalog/internal/view"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, cat *catalog.Catalog, sessions *session.Registry, reservations view.ReservationSource, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(mw.RequestLogger(logger), gin.Recovery())
	r.SetHTMLTemplate(pageTemplates)

	images := catalog.ImageResolver{
		StorageRootPrefix: cfg.Images.StorageRootPrefix,
		WebPathPrefix:     cfg.Images.WebPathPrefix,
	}
	handler := NewHandler(s, cat, images, reservations, cfg.Catalog.IncludeDescendants, logger)

	// Initialize middleware
	rateLimiter := mw.RateLimiter(mw.NewIPRateLimiter(
		rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, 10*time.Minute))

	// The catalog never changes while the server runs, so catalog reads can be cached
	cacheStore := cache.New(cfg.Server.CacheTTL, 2*cfg.Server.CacheTTL)
	caching := mw.Cache(cacheStore, cfg.Server.CacheTTL)

	withSession := mw.Session(sessions, cfg.Server.SessionTTL, cfg.Server.SecureCookies)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})
	r.GET("/healthz", handler.GetHealth)

	if cfg.Images.Directory != "" {
		r.Static(strings.TrimSuffix(cfg.Images.WebPathPrefix, "/"), cfg.Images.Directory)
	}

	// Page and intents of the session
	page := r.Group("/catalog")
	page.Use(withSession)
	{
		page.GET("", handler.GetCatalogPage)
		page.POST("/category", rateLimiter, handler.PostCategory)
		page.POST("/assets/:id/click", rateLimiter, handler.PostAssetClick)
		page.POST("/asset/clear", rateLimiter, handler.PostAssetClear)
	}

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/state", withSession, handler.GetState)
		api.GET("/stream", withSession, handler.GetStream)

		api.GET("/categories", caching, handler.GetCategories)
		api.GET("/categories/tree", caching, handler.GetCategoryTree)
		api.GET("/assets", caching, handler.GetAssets)
		api.GET("/assets/:id", caching, handler.GetAsset)
		api.GET("/assets/:id/reservations", handler.GetAssetReservations)
	}

	return r
}
