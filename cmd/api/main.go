package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/octobees/bakery-finder/internal/config"
	"github.com/octobees/bakery-finder/internal/database"
	"github.com/octobees/bakery-finder/internal/handler"
	"github.com/octobees/bakery-finder/internal/repository"
	"github.com/octobees/bakery-finder/internal/router"
	"github.com/octobees/bakery-finder/internal/scraper"
	"github.com/octobees/bakery-finder/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	logger := zap.L()
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer pool.Close()

	bakeriesRepo := repository.NewPGXBakeriesRepository(pool)

	fetcher := scraper.NewHTTPFetcher(nil, cfg.ScrapeTimeout)
	bakeriesService := service.NewBakeriesService(bakeriesRepo, service.NewNormalizer(cfg.PhoneRegion))
	enrichmentService := service.NewEnrichmentService(bakeriesRepo, scraper.New(fetcher))

	e := router.New(cfg, logger, router.Handlers{
		Health:   handler.NewHealthHandler(bakeriesRepo),
		Bakeries: handler.NewBakeriesHandler(bakeriesService),
		Scraping: handler.NewScrapingHandler(enrichmentService, cfg.BulkEnrichTimeout),
	})
	e.Server.ReadHeaderTimeout = 10 * time.Second

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
