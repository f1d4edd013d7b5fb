/*
Package main is the entry point for the Sitem backend.

It is responsible for loading configuration, initializing the global logging
system, connecting to PostgreSQL and running migrations, bootstrapping the
root account, setting up the HTTP server and realtime gateway, and gracefully
handling operating system interrupt signals (SIGINT, SIGTERM) to ensure a
smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gustavoamc/sitem-backend/internal/app/auth"
	"github.com/gustavoamc/sitem-backend/internal/app/chat"
	"github.com/gustavoamc/sitem-backend/internal/app/moderation"
	"github.com/gustavoamc/sitem-backend/internal/app/room"
	"github.com/gustavoamc/sitem-backend/internal/app/storage"
	"github.com/gustavoamc/sitem-backend/internal/app/store"
	"github.com/gustavoamc/sitem-backend/internal/configs"
	"github.com/gustavoamc/sitem-backend/internal/handler"
	"github.com/gustavoamc/sitem-backend/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run pending migrations.
	st, err := store.NewPgStore(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer st.Close()

	// Ensure the root account exists before the server accepts traffic.
	if err := auth.EnsureRootAccount(ctx, st, auth.RootSeed{
		Username: cfg.RootUsername,
		Email:    cfg.RootEmail,
		Password: cfg.RootPassword,
	}); err != nil {
		logx.Fatal(err, "Failed to bootstrap root account")
	}

	avatars, err := storage.NewObjectStore(storage.ServiceConfig{
		S3BucketName:      cfg.S3BucketName,
		S3Endpoint:        cfg.S3Endpoint,
		S3AccessKeyID:     cfg.S3AccessKeyID,
		S3SecretAccessKey: cfg.S3SecretAccessKey,
	})
	if err != nil {
		logx.Fatal(err, "Failed to initialize avatar storage")
	}

	gateway := chat.NewGateway(st)

	deps := &handler.AppDeps{
		Config:     cfg,
		Store:      st,
		Guard:      auth.NewGuard(st, cfg.JWTSecret),
		Rooms:      room.NewService(st),
		Moderation: moderation.NewService(st),
		Gateway:    gateway,
		Avatars:    avatars,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Sitem Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	gateway.Shutdown()

	logx.Info("Server gracefully stopped.")
}
