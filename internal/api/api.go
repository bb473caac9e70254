// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/api/handlers"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/api/middleware"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
)

type Services struct {
	Production *service.ProductionService
	Rupture    *service.RuptureService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Production != nil {
			productionHandler := handlers.NewProductionHandler(services.Production)
			productionGroup := apiGroup.Group("/producao")
			{
				productionGroup.POST("/upload", productionHandler.UploadFeed)
				productionGroup.POST("/reset", productionHandler.ResetDay)
				productionGroup.GET("/needs", productionHandler.GetNeeds)
				productionGroup.GET("/report/:channel", productionHandler.GetChannelReport)
				productionGroup.GET("/consolidated", productionHandler.GetConsolidatedReport)
				productionGroup.POST("/catalog/refresh", productionHandler.RefreshCatalog)
				productionGroup.GET("/inventory/stats", productionHandler.GetInventoryStats)
				productionGroup.POST("/missing", productionHandler.UploadMissing)
			}
		}

		if services.Rupture != nil {
			ruptureHandler := handlers.NewRuptureHandler(services.Rupture)
			ruptureGroup := apiGroup.Group("/rupture")
			{
				ruptureGroup.POST("/sales", ruptureHandler.UploadSales)
				ruptureGroup.GET("/coverage", ruptureHandler.GetCoverage)
				ruptureGroup.GET("/projection", ruptureHandler.GetProjection)
				ruptureGroup.GET("/trend", ruptureHandler.GetTrend)
				ruptureGroup.GET("/summary", ruptureHandler.GetSummary)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
