package handler

import (
	"context" // detached context for fire-and-forget event publishing
	"errors"  // for errors.Is comparisons
	"fmt"     // building human-readable error messages
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/fee"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/queue"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/service"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// ParkingHandler exposes the two mutating operations of the engine:
// vehicle entry and vehicle exit.  Every error response carries a
// machine-readable "error" kind next to the human-readable "message";
// the UI displays the message verbatim and never branches on the kind.
type ParkingHandler struct {
	Engine *service.AllocationEngine // performs the atomic entry/exit transitions
}

// NewParkingHandler constructs a ParkingHandler.  The engine must be
// non-nil.
func NewParkingHandler(engine *service.AllocationEngine) *ParkingHandler {
	if engine == nil {
		panic("nil engine passed to NewParkingHandler")
	}
	return &ParkingHandler{Engine: engine}
}

// RegisterEntry handles POST /api/vehicles.  The request body must
// contain a license_plate and a vehicle_type.  On success it returns 201
// Created with the new session id, the assigned spot number and the
// entry time.  A plate that is already parked and a full lot both map to
// 409 Conflict; an unknown vehicle type maps to 400.
func (h *ParkingHandler) RegisterEntry(c echo.Context) error {
	var body struct {
		LicensePlate string `json:"license_plate"`
		VehicleType  string `json:"vehicle_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid request body"})
	}
	plate := utils.NormalizePlate(body.LicensePlate)
	if plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "license_plate is required"})
	}
	vt, ok := model.ParseVehicleType(body.VehicleType)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "unknown_vehicle_type",
			"message": fmt.Sprintf("unknown vehicle type %q", body.VehicleType),
		})
	}

	s, err := h.Engine.Entry(plate, vt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVehicleAlreadyParked):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":   "vehicle_already_parked",
				"message": fmt.Sprintf("vehicle %s already has an active session", plate),
			})
		case errors.Is(err, repository.ErrNoSpotAvailable):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":   "no_spot_available",
				"message": fmt.Sprintf("no free %s spot available", vt),
			})
		case errors.Is(err, fee.ErrUnknownVehicleType):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":   "unknown_vehicle_type",
				"message": fmt.Sprintf("unknown vehicle type %q", body.VehicleType),
			})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "failed to record entry"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "Vehicle entry recorded",
		"session_id":  s.ID,
		"spot_number": s.SpotID,
		"entry_time":  s.EntryTime.Format(time.RFC3339),
	})
}

// RegisterExit handles POST /api/vehicles/exit.  The request body must
// contain the license_plate of the parked vehicle.  On success the
// session is closed, the spot freed and the response carries the spot
// number, exit time and total fee.  A plate with no active session maps
// to 404.  A session.closed event is published asynchronously; broker
// failures never fail the exit.
func (h *ParkingHandler) RegisterExit(c echo.Context) error {
	var body struct {
		LicensePlate string `json:"license_plate"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "invalid request body"})
	}
	plate := utils.NormalizePlate(body.LicensePlate)
	if plate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request", "message": "license_plate is required"})
	}

	s, err := h.Engine.Exit(plate)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{
				"error":   "session_not_found",
				"message": "No active session for this vehicle",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "message": "failed to record exit"})
	}

	ev := queue.SessionClosedEvent{
		EventID:      uuid.NewString(),
		SessionID:    s.ID,
		LicensePlate: s.LicensePlate,
		VehicleType:  string(s.VehicleType),
		SpotNumber:   s.SpotID,
		EntryTime:    s.EntryTime.Format(time.RFC3339),
		ExitTime:     s.ExitTime.Format(time.RFC3339),
		TotalFee:     *s.TotalFee,
		ClosedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	go func() { _ = service.PublishSessionClosed(context.Background(), ev) }()

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "Vehicle exit recorded",
		"spot_number": s.SpotID,
		"exit_time":   s.ExitTime.Format(time.RFC3339),
		"total_fee":   *s.TotalFee,
	})
}
