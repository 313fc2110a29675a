package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"healthbutler/internal/auth"
)

// StartTime anchors the uptime reading in the system health payload.
var StartTime = time.Now()

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Platform"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	e.GET("/health", s.healthHandler)
	e.GET("/health/system", s.systemHealthHandler)

	e.Use(LoggerMiddleware)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Assistant Routes
	protected.POST("/assistant/query", s.assistantQueryHandler)
	protected.POST("/nutrition/analyze", s.analyzeMealHandler)
	protected.POST("/fitness/recommendations", s.fitnessRecommendationsHandler)

	// Exercise Catalog Routes
	protected.GET("/exercises/search", s.searchExercisesHandler)
	protected.POST("/catalog/refresh", s.refreshCatalogHandler)

	// User Health Data Routes
	protected.GET("/health/profile", s.getHealthProfileHandler)
	protected.PUT("/health/profile", s.upsertHealthProfileHandler)
	protected.GET("/health/log/meals", s.listMealLogsHandler)
	protected.GET("/plans", s.listWorkoutPlansHandler)

	// Websocket for client refresh notifications
	protected.GET("/ws", s.assistantSocketHandler)

	s.Echo = e
	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

// systemHealthHandler collects and returns system-level metrics alongside
// the catalog snapshot size.
func (s *Server) systemHealthHandler(c echo.Context) error {
	// 1. Memory Stats
	v, _ := mem.VirtualMemory()

	// 2. CPU Usage (Calculated over 1 second)
	cpuPercent, _ := cpu.Percent(time.Second, false)

	// 3. Disk Stats (Root partition)
	d, _ := disk.Usage("/")

	// 4. Host/Runtime Info
	hInfo, _ := host.Info()
	uptime := time.Since(StartTime).String()

	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "online",
		"runtime": map[string]interface{}{
			"uptime":   uptime,
			"os":       hInfo.OS,
			"platform": hInfo.Platform,
			"hostname": hInfo.Hostname,
		},
		"cpu": map[string]interface{}{
			"usage_percent": cpuUsage,
		},
		"memory": map[string]interface{}{
			"total_mb":      v.Total / 1024 / 1024,
			"used_mb":       v.Used / 1024 / 1024,
			"usage_percent": v.UsedPercent,
		},
		"disk": map[string]interface{}{
			"total_gb":      d.Total / 1024 / 1024 / 1024,
			"used_gb":       d.Used / 1024 / 1024 / 1024,
			"usage_percent": d.UsedPercent,
		},
		"catalog": map[string]interface{}{
			"exercise_count": s.store.Len(),
			"updated_at":     s.store.UpdatedAt(),
		},
	})
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
