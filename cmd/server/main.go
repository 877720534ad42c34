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
	"github.com/sirupsen/logrus"

	"github.com/devrank/devrank/internal/api"
	"github.com/devrank/devrank/internal/config"
	"github.com/devrank/devrank/internal/github"
	"github.com/devrank/devrank/internal/leaderboard"
	"github.com/devrank/devrank/internal/scoring"
	"github.com/devrank/devrank/internal/service"

	_ "github.com/devrank/devrank/docs"
)

// @title DevRank API
// @version 1.0
// @description Ranks GitHub users by an impact score derived from their public activity
// @host localhost:8080
// @BasePath /
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Unauthenticated requests work but GitHub caps them at 60/hour
	if cfg.GitHubToken == "" {
		logger.Warn("GITHUB_TOKEN not set, running with reduced rate limits (60 requests/hour)")
	}

	// Initialize services
	client := github.NewClient(cfg.GitHubToken, logger, github.WithBaseURL(cfg.GitHubAPIBaseURL))
	board := leaderboard.NewStore()
	svc := service.New(client, scoring.NewCalculator(), board, logger)
	handler := api.NewHandler(svc, logger, cfg.IsProduction())

	router := api.SetupRouter(handler, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}
