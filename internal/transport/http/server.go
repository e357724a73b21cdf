package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/config"
	"github.com/RahulSaini202/home-automation/internal/core"
	"github.com/RahulSaini202/home-automation/internal/service/homes"
)

// NewServer builds the HTTP server with REST and realtime routes.
func NewServer(hub *core.Hub, relay *core.Relay, homesService *homes.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))

	router.GET("/health", healthHandler)
	router.GET("/stats", statsHandler(hub))

	homeHandlers := NewHomeHandlers(homesService, logger)
	sensorHandlers := NewSensorHandlers(relay, logger)

	home := router.Group("/home")
	{
		home.GET("/motion-detection", homeHandlers.GetMotionDetectionStatus)
		home.POST("/motion-detection", homeHandlers.SetMotionDetectionStatus)
		home.GET("/sensors", sensorHandlers.IngestSensorValues)
		home.POST("/sensors", sensorHandlers.IngestSensorValues)
	}

	debugHandlers := NewDebugHandlers(relay, cfg.Relay.DiagnosticRoom, logger)
	router.POST("/debug/test", debugHandlers.EmitTest)

	if cfg.StaticDir != "" {
		router.Static("/images/photo", cfg.StaticDir)
	}

	// /ws bypasses gin: its writer will not hijack once the 101 is written.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// StatsResponse reports current realtime load.
type StatsResponse struct {
	Rooms   int `json:"rooms"`
	Clients int `json:"clients"`
}

func statsHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms, clients := hub.Stats()
		c.JSON(stdhttp.StatusOK, StatsResponse{Rooms: rooms, Clients: clients})
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func badRequest(c *gin.Context, format string, args ...any) {
	c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf(format, args...)})
}
