package main

import (
	"log"
	"os"

	"fleettrack_server/internal/db"
	"fleettrack_server/internal/http"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize database connection
	if err := db.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Get port from environment variable or use default
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	// Create and start HTTP server (no scheduled sweeps in this binary)
	server := http.NewServer(port)

	log.Printf("FleetTrack HTTP Server starting on port %s", port)
	log.Println("Available endpoints:")
	log.Println("  GET    /health")
	log.Println("  GET    /metrics")
	log.Println("  POST   /api/v1/auth/login")
	log.Println("  GET    /api/v1/accounts/:account_id/groups")
	log.Println("  GET    /api/v1/accounts/:account_id/groups/:group_id/devices")
	log.Println("  POST   /api/v1/accounts/:account_id/events/count-old")
	log.Println("  POST   /api/v1/accounts/:account_id/events/delete-old")

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}
