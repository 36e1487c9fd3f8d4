package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	youtubeclient "youtube-analytics/infrastructure/clients/youtube"
	"youtube-analytics/infrastructure/configuration"
	"youtube-analytics/infrastructure/credstore"
	"youtube-analytics/infrastructure/filecsv"
	"youtube-analytics/infrastructure/logger"
	"youtube-analytics/infrastructure/persistence"
	httpHandler "youtube-analytics/interfaces/http"
	"youtube-analytics/server"
	"youtube-analytics/usecase"

	"golang.org/x/sync/errgroup"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	cfg, err := configuration.Load()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Configuration loading failed")
		os.Exit(1)
	}

	db, err := persistence.NewSQLiteDB(cfg.Database.Filename)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer db.Close()
	if err := persistence.EnsureSchema(db); err != nil {
		logger.GetLogger().WithField("error", err).Error("Schema creation failed")
		os.Exit(1)
	}

	videoStore := persistence.NewVideoRepository(db)
	credentialStore := credstore.NewStore()

	// Keychain first; config and env are the fallback.
	apiKey, err := credentialStore.Load()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Keychain unavailable, falling back to config")
	}
	if apiKey == "" {
		apiKey = cfg.YouTube.APIKey
	}
	if apiKey == "" {
		logger.GetLogger().Error("No API key configured; set YOUTUBE_API_KEY or store one via the credential endpoint")
		os.Exit(1)
	}

	searchClient, err := youtubeclient.NewClient(ctx, apiKey, cfg.YouTube.Region, cfg.YouTube.QuotaLimit)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("YouTube client initialization failed")
		os.Exit(1)
	}

	exporter, err := filecsv.NewExporter(cfg.Export.Dir, cfg.Export.FilenameFormat)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Exporter initialization failed")
		os.Exit(1)
	}

	searchUseCase := usecase.NewSearchUsecase(searchClient, videoStore)
	videoUseCase := usecase.NewVideoUsecase(videoStore, exporter)

	searchHandler := httpHandler.NewSearchHandler(searchUseCase, searchClient, credentialStore, cfg)
	videoHandler := httpHandler.NewVideoHandler(videoUseCase)

	if deleted, err := videoStore.CleanupOldHistory(ctx, cfg.Database.HistoryRetainDays); err != nil {
		logger.GetLogger().WithField("error", err).Warn("History cleanup failed")
	} else if deleted > 0 {
		logger.GetLogger().WithField("deleted", deleted).Info("Expired search history removed on startup")
	}

	router := server.InitiateRouter(searchHandler, videoHandler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.GetLogger().WithField("port", cfg.App.Port).Info("HTTP server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		select {
		case sig := <-interrupt:
			logger.GetLogger().WithField("signal", sig.String()).Info("Shutdown signal received")
		case <-ctx.Done():
		}
		searchUseCase.Cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server terminated with error")
		os.Exit(1)
	}
	logger.GetLogger().Info("Server stopped")
}
