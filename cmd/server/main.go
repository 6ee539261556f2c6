package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/hrsuite/bulkupload/internal/config"
	"github.com/hrsuite/bulkupload/internal/dispatch"
	"github.com/hrsuite/bulkupload/internal/ingestion"
	"github.com/hrsuite/bulkupload/internal/listing"
	"github.com/hrsuite/bulkupload/internal/middleware"
	"github.com/hrsuite/bulkupload/internal/session"
	"github.com/hrsuite/bulkupload/internal/sharepoint"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	store, err := sharepoint.NewClient(sharepoint.Config{
		BaseURL:   cfg.Store.BaseURL,
		AuthToken: cfg.Store.AuthToken,
		Timeout:   cfg.Store.Timeout,
	})
	if err != nil {
		logger.Fatal("Failed to build store client", zap.Error(err))
	}

	ingestSvc := ingestion.NewService(logger)
	dispatcher := dispatch.New(store, cfg.Store.ListName, logger)
	roster := listing.NewReader(func() listing.Pager {
		return store.Items(cfg.Store.ListName, listing.DefaultTop)
	}, logger)
	sess := session.New(ingestSvc, dispatcher, roster, logger)

	// Warm the roster cache; an unreachable store just means an empty list.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Store.Timeout)
	if err := sess.Refresh(warmCtx); err != nil {
		logger.Warn("initial roster fetch failed", zap.Error(err))
	}
	warmCancel()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Server.AllowedOrigin},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	handler := middleware.Logging(logger)(
		corsHandler.Handler(session.NewHTTPHandler(sess, logger)),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		// No write timeout: the dispatch endpoint answers only after the
		// whole batch has been attempted.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting bulk upload server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
