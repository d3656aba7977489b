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

	"briscola-game/internal/config"
	"briscola-game/internal/database"
	"briscola-game/internal/game"
	"briscola-game/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting Briscola server", zap.String("addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := game.NewStore(logger)

	var results server.ResultStore
	if cfg.DBDriver != "" {
		db, err := database.New(ctx, cfg.DBDriver, cfg.DBDSN, logger)
		if err != nil {
			logger.Fatal("open results database", zap.Error(err))
		}
		defer db.Close()
		store.OnFinish(server.NewArchiver(db, logger))
		results = db
	} else {
		logger.Info("results archive disabled")
	}

	hub := server.NewHub(store, cfg.SeatCapacity, logger)
	go hub.Run()
	defer hub.Stop()

	staticDir := cfg.StaticDir
	if _, err := os.Stat(staticDir); err != nil {
		logger.Info("static files disabled", zap.String("dir", staticDir))
		staticDir = ""
	}

	api := server.NewAPI(store, results, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewRouter(api, hub, staticDir),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
