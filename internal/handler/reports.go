package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/service"
)

// ReportHandler exposes earnings reporting and the live occupancy stats
// polled by the dashboard.
type ReportHandler struct {
	Queries *service.QueryService
}

// NewReportHandler constructs a ReportHandler.  The query service must
// be non-nil.
func NewReportHandler(queries *service.QueryService) *ReportHandler {
	if queries == nil {
		panic("nil query service passed to NewReportHandler")
	}
	return &ReportHandler{Queries: queries}
}

// Reports handles GET /api/reports.  Optional start_date/end_date bound
// the entry time of the sessions considered.  Only closed sessions are
// listed and summed: an active session has no fee yet, so it is excluded
// from total_earnings rather than counted as zero.
func (h *ReportHandler) Reports(c echo.Context) error {
	from, err := parseDateParam(c.QueryParam("start_date"), false)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": err.Error()})
	}
	to, err := parseDateParam(c.QueryParam("end_date"), true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": err.Error()})
	}

	total, sessions := h.Queries.Report(from, to)
	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, toSessionView(s))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total_earnings": total,
		"sessions":       views,
	})
}

// Stats handles GET /api/stats.  The UI polls this endpoint every few
// seconds; responses come straight from a registry snapshot, so
// occupied_spots + free_spots always equals total_spots.
func (h *ReportHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Queries.Stats())
}
