package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"directum-studio/app"
	"directum-studio/config"
	"directum-studio/logger"
)

func main() {
	// Load .env in development; production sets variables directly
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Overload(".env"); err != nil {
			log.Printf("Warning: .env file not found, using system environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize application
	application, err := app.Initialize(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("❌ failed to initialize application", zap.Error(err))
	}
	defer application.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr(),
		Handler: application.Router,
	}

	go func() {
		zl.Info("🚀 server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("❌ server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("🛑 shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("❌ graceful shutdown failed", zap.Error(err))
	}
}
