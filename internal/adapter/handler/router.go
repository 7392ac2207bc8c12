package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-analyzer/pkg/config"
	"github.com/johnquangdev/meeting-analyzer/pkg/middleware"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
	meetingLoader  middleware.MeetingGetter
	readiness      *Readiness
	startedAt      time.Time
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, meetingLoader middleware.MeetingGetter) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
		meetingLoader:  meetingLoader,
		startedAt:      time.Now(),
	}
}

// WithReadiness mounts /health/ready
func (rt *Router) WithReadiness(r *Readiness) *Router {
	rt.readiness = r
	return rt
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	if rt.readiness != nil {
		e.GET("/health/ready", rt.readiness.Ready)
	}

	if rt.cfg == nil || rt.cfg.Metrics.Enabled {
		path := "/metrics"
		if rt.cfg != nil && rt.cfg.Metrics.Path != "" {
			path = rt.cfg.Metrics.Path
		}
		e.GET(path, echo.WrapHandler(promhttp.Handler()))
	}

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	rt.setupMeetingRoutes(v1)
}

// setupMeetingRoutes configures upload, document and translation routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("/upload", rt.meetingHandler.Upload)
	meetings.GET("", rt.meetingHandler.List)

	byID := meetings.Group("/:id", middleware.RequireMeeting(rt.meetingLoader))
	byID.GET("", rt.meetingHandler.Get)
	byID.DELETE("", rt.meetingHandler.Delete)
	byID.GET("/status", rt.meetingHandler.Status)
	byID.GET("/artifacts/:kind", rt.meetingHandler.Artifact)
	byID.GET("/pdf/:kind", rt.meetingHandler.Artifact)
	byID.POST("/translate", rt.meetingHandler.Translate)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(rt.startedAt).Round(time.Second).String(),
	}
	if rt.cfg != nil {
		body["environment"] = rt.cfg.Server.Environment
		body["transcription_provider"] = rt.cfg.Transcription.Provider
		body["demo"] = rt.cfg.IsDemo()
	}
	return c.JSON(http.StatusOK, body)
}
