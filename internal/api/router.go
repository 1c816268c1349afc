// Package api exposes the engine's operation surface over localhost
// HTTP for the external frontend.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oracleapp/oracle/internal/catalog"
	"github.com/oracleapp/oracle/internal/config"
	"github.com/oracleapp/oracle/internal/details"
	"github.com/oracleapp/oracle/internal/dlc"
	"github.com/oracleapp/oracle/internal/download"
	"github.com/oracleapp/oracle/internal/library"
	"github.com/oracleapp/oracle/internal/place"
)

// DefaultAddr is the listen address for the local API.
const DefaultAddr = "127.0.0.1:8080"

// Server wires the engine components behind HTTP handlers.
type Server struct {
	database  *catalog.Database
	details   *catalog.DetailsClient
	cache     *details.Cache
	placer    *place.Engine
	indexer   *library.Indexer
	syncer    *dlc.Engine
	downloads *download.Service
	settings  *config.Manager
}

// NewServer creates the API server over the given components.
func NewServer(
	database *catalog.Database,
	detailsClient *catalog.DetailsClient,
	cache *details.Cache,
	placer *place.Engine,
	indexer *library.Indexer,
	syncer *dlc.Engine,
	downloads *download.Service,
	settings *config.Manager,
) *Server {
	return &Server{
		database:  database,
		details:   detailsClient,
		cache:     cache,
		placer:    placer,
		indexer:   indexer,
		syncer:    syncer,
		downloads: downloads,
		settings:  settings,
	}
}

// Router builds the gin engine with CORS restricted to localhost
// frontends.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
			"http://[::1]:3000",
			"http://[::1]:5173",
		},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/search", s.SearchHandler)
		v1.GET("/details/:id", s.DetailsHandler)
		v1.POST("/details/batch", s.BatchDetailsHandler)
		v1.POST("/cache/clear", s.ClearCacheHandler)

		lib := v1.Group("/library")
		{
			lib.GET("", s.ListLibraryHandler)
			lib.GET("/dirs", s.CheckDirectoriesHandler)
			lib.POST("/:id/download", s.DownloadHandler)
			lib.POST("/:id/update", s.UpdateHandler)
			lib.DELETE("/:id", s.RemoveHandler)
			lib.GET("/:id/dlcs", s.GetDlcsHandler)
			lib.PUT("/:id/dlcs", s.SetDlcsHandler)
		}

		v1.GET("/settings", s.GetSettingsHandler)
		v1.PUT("/settings", s.SaveSettingsHandler)
		v1.POST("/steam/restart", s.RestartSteamHandler)
	}

	return r
}
