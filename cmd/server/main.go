// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/api"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/cache"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/config"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/service"
	"github.com/andresuchdata/vendas-ops/backend-go/internal/storage"
	"github.com/andresuchdata/vendas-ops/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	catalogCache, err := cache.NewCatalogCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("catalog cache unavailable, continuing without cache")
		catalogCache = cache.NewNoopCatalogCache()
	}

	var history *postgres.HistoryRepository
	if cfg.Database.Enabled {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		history = postgres.NewHistoryRepository(db)
	}

	var reportStore storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("report archive storage unavailable")
		} else {
			reportStore = client
		}
	}

	productionService := service.NewProductionService(service.ProductionServiceOptions{
		Cache:   catalogCache,
		Storage: reportStore,
		History: history,
		Sheets:  cfg.Sheets,
	})
	ruptureService := service.NewRuptureService(productionService.Catalog(), history)

	// Warm the catalog once at startup; a failed fetch degrades, it does
	// not block serving.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := productionService.RefreshCatalog(startupCtx); err != nil {
		logger.Log.Warn().Err(err).Msg("initial catalog refresh degraded")
	}
	cancelStartup()

	router := api.NewRouter(&api.Services{
		Production: productionService,
		Rupture:    ruptureService,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
