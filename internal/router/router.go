// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/smart-parking/internal/handler" // import the handlers that implement the endpoints
)

// RegisterRoutes registers every endpoint of the engine on the provided
// Echo instance.  The /healthz endpoint can be used by load balancers or
// monitoring systems to verify that the service is up; everything else
// lives under the /api prefix consumed by the dashboard UI.
func RegisterRoutes(e *echo.Echo, parking *handler.ParkingHandler, sessions *handler.SessionQueryHandler, reports *handler.ReportHandler) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	// Record a vehicle entry: allocates a spot and opens a session.
	api.POST("/vehicles", parking.RegisterEntry)
	// Record a vehicle exit: computes the fee, closes the session and
	// frees the spot.
	api.POST("/vehicles/exit", parking.RegisterExit)
	// List all currently open sessions.
	api.GET("/sessions/active", sessions.ActiveSessions)
	// Search open and closed sessions by plate, type, id or date range.
	api.GET("/sessions/search", sessions.SearchSessions)
	// Earnings report over a date range, closed sessions only.
	api.GET("/reports", reports.Reports)
	// Live occupancy counters, polled periodically by the dashboard.
	api.GET("/stats", reports.Stats)
}
