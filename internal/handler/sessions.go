package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/service"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// defaultSearchLimit caps search results when the client does not supply
// its own limit.
const defaultSearchLimit = 50

// activeSessionView is the JSON shape of one entry in the active-session
// listing.  Exit time and fee are omitted: they are always null for an
// active session.
type activeSessionView struct {
	ID           uint64 `json:"id"`
	LicensePlate string `json:"license_plate"`
	VehicleType  string `json:"vehicle_type"`
	EntryTime    string `json:"entry_time"`
	SpotNumber   int    `json:"spot_number"`
}

// sessionView is the JSON shape of a session in search and report
// results.  exit_time and total_fee are null while the session is
// active.
type sessionView struct {
	ID           uint64  `json:"id"`
	LicensePlate string  `json:"license_plate"`
	VehicleType  string  `json:"vehicle_type"`
	EntryTime    string  `json:"entry_time"`
	ExitTime     *string `json:"exit_time"`
	TotalFee     *int64  `json:"total_fee"`
	SpotNumber   int     `json:"spot_number"`
}

func toSessionView(s model.Session) sessionView {
	v := sessionView{
		ID:           s.ID,
		LicensePlate: s.LicensePlate,
		VehicleType:  string(s.VehicleType),
		EntryTime:    s.EntryTime.Format(time.RFC3339),
		SpotNumber:   s.SpotID,
	}
	if s.ExitTime != nil {
		iso := s.ExitTime.Format(time.RFC3339)
		v.ExitTime = &iso
	}
	if s.TotalFee != nil {
		f := *s.TotalFee
		v.TotalFee = &f
	}
	return v
}

// parseDateParam accepts either a bare date (2006-01-02) or an RFC3339
// timestamp.  Bare dates are interpreted in UTC; when the value is an
// upper bound, the following midnight is returned so that the whole day
// is included by an exclusive comparison.
func parseDateParam(s string, upperBound bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		if upperBound {
			t = t.Add(24 * time.Hour)
		}
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", s)
	}
	t = t.UTC()
	return &t, nil
}

// SessionQueryHandler exposes the read-only session endpoints.  It never
// mutates engine state and may be called concurrently with entry/exit.
type SessionQueryHandler struct {
	Queries *service.QueryService
}

// NewSessionQueryHandler constructs a SessionQueryHandler.  The query
// service must be non-nil.
func NewSessionQueryHandler(queries *service.QueryService) *SessionQueryHandler {
	if queries == nil {
		panic("nil query service passed to NewSessionQueryHandler")
	}
	return &SessionQueryHandler{Queries: queries}
}

// ActiveSessions handles GET /api/sessions/active.  It returns all open
// sessions ordered by entry time ascending.  When no vehicle is parked,
// it returns an empty array.
func (h *SessionQueryHandler) ActiveSessions(c echo.Context) error {
	sessions := h.Queries.ActiveSessions()
	views := make([]activeSessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, activeSessionView{
			ID:           s.ID,
			LicensePlate: s.LicensePlate,
			VehicleType:  string(s.VehicleType),
			EntryTime:    s.EntryTime.Format(time.RFC3339),
			SpotNumber:   s.SpotID,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// SearchSessions handles GET /api/sessions/search.  All filters are
// optional and combine independently:
//
//	license_plate – substring match, or exact when exact=true
//	id            – a single session id
//	vehicle_type  – car, bike or truck
//	start_date    – entry_time lower bound (date or RFC3339)
//	end_date      – entry_time upper bound, inclusive for bare dates
//	limit         – maximum results, default 50
//
// Results are ordered by entry time descending (most recent first).
func (h *SessionQueryHandler) SearchSessions(c echo.Context) error {
	f := repository.SearchFilter{Limit: defaultSearchLimit}

	f.Plate = utils.NormalizePlate(c.QueryParam("license_plate"))
	f.ExactPlate = c.QueryParam("exact") == "true"

	if idStr := c.QueryParam("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid session id"})
		}
		f.ID = id
	}
	if vtStr := c.QueryParam("vehicle_type"); vtStr != "" {
		vt, ok := model.ParseVehicleType(vtStr)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "unknown_vehicle_type",
				"message": fmt.Sprintf("unknown vehicle type %q", vtStr),
			})
		}
		f.VehicleType = vt
	}
	from, err := parseDateParam(c.QueryParam("start_date"), false)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": err.Error()})
	}
	to, err := parseDateParam(c.QueryParam("end_date"), true)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": err.Error()})
	}
	f.From, f.To = from, to

	if limStr := c.QueryParam("limit"); limStr != "" {
		n, err := strconv.Atoi(limStr)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid limit"})
		}
		f.Limit = n
	}

	sessions := h.Queries.Search(f)
	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, toSessionView(s))
	}
	return c.JSON(http.StatusOK, views)
}
