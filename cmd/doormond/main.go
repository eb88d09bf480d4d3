package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/joho/godotenv"

	"door-monitor-backend/config"
	"door-monitor-backend/internal/api"
	"door-monitor-backend/internal/db"
	"door-monitor-backend/internal/ingest"
	"door-monitor-backend/internal/notification"
	"door-monitor-backend/internal/store"
)

func main() {
	logger := log.New(os.Stdout, "door-monitor ", log.LstdFlags)

	// A local .env is optional; real deployments set the variables directly.
	if err := godotenv.Load(); err == nil {
		logger.Println(".env file loaded")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if !cfg.Twilio.Configured() {
		logger.Println("Warning: SMS provider credentials are not configured; alert delivery will be skipped")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	var pushBroadcaster notification.PushBroadcaster
	if cfg.Push.Enabled() {
		pushBroadcaster = notification.NewWebPushBroadcaster(appStore, &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		})
		logger.Println("web push channel enabled")
	} else {
		logger.Println("web push channel disabled (no VAPID keys)")
	}

	dispatcher := notification.NewDispatcher(cfg, appStore, pushBroadcaster)
	dispatcher.Start(ctx)

	ingestSvc := ingest.NewService(appStore, dispatcher)

	router := api.NewRouter(cfg, appStore, ingestSvc, dispatcher)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
