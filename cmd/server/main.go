// Package main is the entry point for the structapp HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abaelde/structure-application/api"
	"github.com/abaelde/structure-application/internal/config"
	"github.com/abaelde/structure-application/internal/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Default()
	if path := os.Getenv("STRUCTAPP_CONFIG"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logging.Fatal("cannot load config", zap.String("path", path), zap.Error(err))
		}
		cfg = loaded
	}
	config.Set(cfg)
	if err := logging.Initialize(cfg.Logging); err != nil {
		logging.Fatal("cannot initialize logging", zap.Error(err))
	}
	defer logging.Sync()

	addr := cfg.Server.Addr
	if env := os.Getenv("STRUCTAPP_ADDR"); env != "" {
		addr = env
	}

	handler := api.NewHandler(logging.Named("api"))
	server := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(handler, cfg.Server.AllowedOrigins),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logging.Info("server listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error("shutdown failed", zap.Error(err))
	}
}
