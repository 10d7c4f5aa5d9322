package http

import (
	"os"

	"fleettrack_server/internal/http/controllers"
	"fleettrack_server/pkg/colors"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	port   string
}

// NewServer creates a new HTTP server instance
func NewServer(port string) *Server {
	// Set Gin to release mode to reduce debug output
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Only add logger middleware if LOG_HTTP is set to true
	if os.Getenv("LOG_HTTP") == "true" {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery())
	router.Use(CORSMiddleware())

	// Initialize WebSocket hub and feed it sweep outcomes
	InitializeWebSocket()
	controllers.SweepBroadcast = func(result controllers.SweepResult, sweepErr error) {
		update := &SweepUpdate{
			RunID:        result.RunID,
			Mode:         result.Mode,
			AccountID:    result.AccountID,
			GroupID:      result.GroupID,
			CutoffTime:   result.Cutoff,
			Total:        result.Total,
			CountUnknown: result.CountUnknown,
			DurationMS:   result.DurationMS,
		}
		if sweepErr != nil {
			update.Error = sweepErr.Error()
		}
		WSHub.BroadcastSweepUpdate(update)
	}

	SetupRoutes(router)

	return &Server{
		router: router,
		port:   port,
	}
}

// Router exposes the underlying gin engine (used by tests)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	colors.PrintServer("HTTP REST API server starting on port %s", s.port)
	colors.PrintServer("WebSocket endpoint available at /ws for sweep progress")
	return s.router.Run(":" + s.port)
}

// CORSMiddleware handles cross origin requests
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
