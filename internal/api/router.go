package api

import (
	"retail-analytics/internal/api/handler"
	"retail-analytics/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.RunHandler) {
	r.POST("/api/v1/runs", h.CreateRun)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/results", h.GetRunResults)
	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	// Generic run route last
	r.GET("/api/v1/runs/*", h.GetRun)
}
