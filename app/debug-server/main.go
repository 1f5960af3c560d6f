package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"myShopFeed/app/debug-server/router"
	"myShopFeed/business/feed"
	"myShopFeed/business/intel"
	"myShopFeed/internal/identity"
	catalogRepo "myShopFeed/internal/repository/catalog"
	"myShopFeed/internal/repository/memory"
	psqlRepo "myShopFeed/internal/repository/postgres"
	redisRepo "myShopFeed/internal/repository/redis"
	"myShopFeed/internal/repository/tiered"
	"myShopFeed/internal/rest"
	"myShopFeed/pkg/config"
	"myShopFeed/pkg/database"
	"myShopFeed/pkg/logger"
	"myShopFeed/pkg/metrics"
)

const stateTTL = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting MyShopFeed debug host", "version", cfg.App.Version)

	metrics.Init()

	// Local tier: Redis when reachable, in-memory otherwise.
	var local tiered.Tier = memory.NewStore()
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory state", "error", err)
	} else {
		local = redisRepo.NewStateRepository(redisClient, stateTTL)
		defer database.CloseRedisClient(redisClient)
	}

	// Remote tier and event log: only with remote sync enabled.
	var remote tiered.Tier
	var eventLog feed.EventLogRepository
	if cfg.Feed.RemoteSync {
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		remote = psqlRepo.NewFeedStateRepository(db)
		eventLog = psqlRepo.NewInteractionEventRepository(db)
		logger.Info("Remote sync enabled")
	}

	store := tiered.NewStore(local, remote)

	intelCfg := intel.DefaultConfig()
	intelCfg.CacheSize = cfg.Feed.ClassifierCacheSize
	intelCfg.MinCategoryScore = cfg.Feed.MinCategoryScore
	intelCfg.MinConfidence = cfg.Feed.MinConfidence
	classifier := intel.NewClassifier(intelCfg)

	catalog := catalogRepo.NewRepository(catalogRepo.Config{BaseURL: cfg.Catalog.BaseURL})
	resolver := identity.NewResolver(cfg.JWT.SecretKey)
	sink := feed.NewMemorySink(50)

	sessions := newFeedSessions(cfg, catalog, classifier, store, eventLog, sink)

	feedHandler := rest.NewFeedHandler(sessions, resolver)
	debugHandler := rest.NewFeedDebugHandler(sessions, resolver)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetupFeedRoutes(api, feedHandler)

	// inspection endpoints stay off outside development
	if cfg.App.Environment == "development" {
		router.SetupDebugRoutes(api, debugHandler)
	}

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
