package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-parking/internal/fee"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/service"
)

// newTestHandlers builds the full handler set on top of a small in-memory
// lot: 2 car spots, 1 bike spot, 1 truck spot at the default rates.
func newTestHandlers(t *testing.T) (*ParkingHandler, *SessionQueryHandler, *ReportHandler) {
	t.Helper()
	registry := repository.NewSpotRegistry(map[model.VehicleType]int{
		model.VehicleCar:   2,
		model.VehicleBike:  1,
		model.VehicleTruck: 1,
	})
	store := repository.NewSessionStore()
	policy := fee.NewPolicy(map[model.VehicleType]int64{
		model.VehicleCar:   20,
		model.VehicleBike:  10,
		model.VehicleTruck: 40,
	})
	engine := service.NewAllocationEngine(registry, store, policy)
	queries := service.NewQueryService(registry, store)
	return NewParkingHandler(engine), NewSessionQueryHandler(queries), NewReportHandler(queries)
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func TestRegisterEntrySuccess(t *testing.T) {
	parking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, parking.RegisterEntry, `{"license_plate":"abc123","vehicle_type":"car"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if out["message"] != "Vehicle entry recorded" {
		t.Errorf("Unexpected message %q", out["message"])
	}
	if out["spot_number"] != float64(1) {
		t.Errorf("Expected spot_number 1, got %v", out["spot_number"])
	}
	if out["session_id"] != float64(1) {
		t.Errorf("Expected session_id 1, got %v", out["session_id"])
	}
	if _, ok := out["entry_time"].(string); !ok {
		t.Errorf("Expected entry_time string, got %v", out["entry_time"])
	}
}

func TestRegisterEntryValidation(t *testing.T) {
	parking, _, _ := newTestHandlers(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantKind string
	}{
		{"missing plate", `{"vehicle_type":"car"}`, http.StatusBadRequest, "invalid_request"},
		{"blank plate", `{"license_plate":"   ","vehicle_type":"car"}`, http.StatusBadRequest, "invalid_request"},
		{"unknown type", `{"license_plate":"ABC123","vehicle_type":"hovercraft"}`, http.StatusBadRequest, "unknown_vehicle_type"},
		{"malformed body", `{"license_plate":`, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := postJSON(t, parking.RegisterEntry, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("Expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if out["error"] != tt.wantKind {
				t.Errorf("Expected error kind %q, got %v", tt.wantKind, out["error"])
			}
		})
	}
}

func TestRegisterEntryConflicts(t *testing.T) {
	parking, _, _ := newTestHandlers(t)

	if rec, _ := postJSON(t, parking.RegisterEntry, `{"license_plate":"ABC123","vehicle_type":"car"}`); rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	// Same plate again, normalization included.
	rec, out := postJSON(t, parking.RegisterEntry, `{"license_plate":" abc123 ","vehicle_type":"car"}`)
	if rec.Code != http.StatusConflict || out["error"] != "vehicle_already_parked" {
		t.Errorf("Expected 409 vehicle_already_parked, got %d %v", rec.Code, out["error"])
	}

	// Fill the single bike spot, then overflow it.
	if rec, _ := postJSON(t, parking.RegisterEntry, `{"license_plate":"BIKE01","vehicle_type":"bike"}`); rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}
	rec, out = postJSON(t, parking.RegisterEntry, `{"license_plate":"BIKE02","vehicle_type":"bike"}`)
	if rec.Code != http.StatusConflict || out["error"] != "no_spot_available" {
		t.Errorf("Expected 409 no_spot_available, got %d %v", rec.Code, out["error"])
	}
}

func TestRegisterExitLifecycle(t *testing.T) {
	parking, _, _ := newTestHandlers(t)

	if rec, _ := postJSON(t, parking.RegisterEntry, `{"license_plate":"ABC123","vehicle_type":"car"}`); rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	rec, out := postJSON(t, parking.RegisterExit, `{"license_plate":"abc123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if out["message"] != "Vehicle exit recorded" {
		t.Errorf("Unexpected message %q", out["message"])
	}
	if out["spot_number"] != float64(1) {
		t.Errorf("Expected spot_number 1, got %v", out["spot_number"])
	}
	// An immediate exit still bills the one-hour minimum.
	if out["total_fee"] != float64(20) {
		t.Errorf("Expected total_fee 20, got %v", out["total_fee"])
	}
	if _, ok := out["exit_time"].(string); !ok {
		t.Errorf("Expected exit_time string, got %v", out["exit_time"])
	}

	// Exiting again finds no active session.
	rec, out = postJSON(t, parking.RegisterExit, `{"license_plate":"ABC123"}`)
	if rec.Code != http.StatusNotFound || out["error"] != "session_not_found" {
		t.Errorf("Expected 404 session_not_found, got %d %v", rec.Code, out["error"])
	}
	if out["message"] != "No active session for this vehicle" {
		t.Errorf("Unexpected message %q", out["message"])
	}

	// The freed spot is allocatable again.
	rec, out = postJSON(t, parking.RegisterEntry, `{"license_plate":"NEW999","vehicle_type":"car"}`)
	if rec.Code != http.StatusCreated || out["spot_number"] != float64(1) {
		t.Errorf("Expected spot 1 to be reused, got %d %v", rec.Code, out["spot_number"])
	}
}

func TestRegisterExitValidation(t *testing.T) {
	parking, _, _ := newTestHandlers(t)

	rec, out := postJSON(t, parking.RegisterExit, `{}`)
	if rec.Code != http.StatusBadRequest || out["error"] != "invalid_request" {
		t.Errorf("Expected 400 invalid_request, got %d %v", rec.Code, out["error"])
	}

	rec, out = postJSON(t, parking.RegisterExit, `{"license_plate":"GHOST1"}`)
	if rec.Code != http.StatusNotFound || out["error"] != "session_not_found" {
		t.Errorf("Expected 404 session_not_found, got %d %v", rec.Code, out["error"])
	}
}
