package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"fleettrack_server/config"
	"fleettrack_server/internal/db"
	"fleettrack_server/internal/http"
	"fleettrack_server/internal/scheduler"
	"fleettrack_server/pkg/colors"

	"github.com/joho/godotenv"
)

func main() {
	// Print attractive banner
	colors.PrintBanner()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		colors.PrintWarning("No .env file found, using system environment variables")
	} else {
		colors.PrintSuccess("Environment configuration loaded from .env file")
	}

	// Initialize database connection
	colors.PrintInfo("Initializing database connection...")
	if err := db.Initialize(); err != nil {
		colors.PrintError("Failed to initialize database: %v", err)
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer db.Close()

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	colors.PrintHeader("FLEETTRACK SERVER INITIALIZATION")
	colors.PrintServer("HTTP Server configured for port %s (REST API Access)", httpPort)
	colors.PrintSuccess("Database connection established successfully")

	// Start the scheduled retention sweep
	sweepScheduler := scheduler.NewScheduler(db.GetDB(), config.GetRetentionConfig())
	if err := sweepScheduler.Start(); err != nil {
		colors.PrintError("Failed to start retention scheduler: %v", err)
		log.Fatalf("Retention scheduler failed: %v", err)
	}
	defer sweepScheduler.Stop()

	// Start HTTP Server in a goroutine
	errorChan := make(chan error, 1)
	go func() {
		httpServer := http.NewServer(httpPort)
		colors.PrintInfo("Starting HTTP Server for REST API...")

		colors.PrintSubHeader("Available REST API Endpoints")
		colors.PrintEndpoint("GET", "/health", "Health check endpoint")
		colors.PrintEndpoint("GET", "/metrics", "Prometheus metrics")
		colors.PrintEndpoint("POST", "/api/v1/auth/login", "User authentication")
		colors.PrintEndpoint("GET", "/api/v1/auth/me", "Get user profile")

		colors.PrintSubHeader("Account API Endpoints")
		colors.PrintEndpoint("GET", "/api/v1/accounts/:account_id/devices", "List account devices")
		colors.PrintEndpoint("GET", "/api/v1/accounts/:account_id/groups", "List device groups")
		colors.PrintEndpoint("GET", "/api/v1/accounts/:account_id/groups/:group_id/devices", "Resolve group members")
		colors.PrintEndpoint("POST", "/api/v1/accounts/:account_id/groups/:group_id/devices", "Add group member (Admin)")
		colors.PrintEndpoint("PUT", "/api/v1/accounts/:account_id/groups/:group_id/devices", "Replace group members (Admin)")
		colors.PrintEndpoint("POST", "/api/v1/accounts/:account_id/events/count-old", "Count old events (Admin)")
		colors.PrintEndpoint("POST", "/api/v1/accounts/:account_id/events/delete-old", "Delete old events (Admin)")

		colors.PrintSubHeader("WebSocket Connection")
		colors.PrintEndpoint("GET", "/ws", "Real-time sweep progress updates")

		if err := httpServer.Start(); err != nil {
			errorChan <- err
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errorChan:
		colors.PrintError("Server startup failed: %v", err)
		return
	case <-quit:
		colors.PrintShutdown()
		return
	}
}
