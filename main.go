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

	"github.com/heartwise/cardio-be/internal/api"
	"github.com/heartwise/cardio-be/internal/auth"
	"github.com/heartwise/cardio-be/internal/config"
	"github.com/heartwise/cardio-be/internal/database"
	"github.com/heartwise/cardio-be/internal/logger"
	"github.com/heartwise/cardio-be/internal/monitoring"
	"github.com/heartwise/cardio-be/internal/places"
	"github.com/heartwise/cardio-be/internal/predictor"
	"github.com/heartwise/cardio-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Ensure the base directory for uploaded media exists
	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatalf("Failed to create media directory: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Load the classifier artifact once; read-only from here on
	model, err := predictor.Load(cfg.ModelPath)
	if err != nil {
		log.Fatalf("Failed to load classifier artifact: %v", err)
	}

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenValidity)
	userService := services.NewUserService(db)
	predictionService := services.NewPredictionService(db)
	placesClient := places.NewClient(cfg.PlacesBaseURL, cfg.PlacesAPIKey, cfg.PlacesTimeout)

	// Set up and run the background retention worker
	retention, err := monitoring.NewRetentionWorker(predictionService, cfg.RetentionSchedule, cfg.RetentionDays)
	if err != nil {
		log.Fatalf("Failed to set up retention worker: %v", err)
	}
	go retention.Run()

	// Set up router
	router := api.NewRouter(tokens, userService, predictionService, model, placesClient, cfg.UploadDir)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	retention.Stop() // Stop the retention worker

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
