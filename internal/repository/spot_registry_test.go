package repository

import (
	"errors"
	"testing"

	"github.com/iliyamo/smart-parking/internal/model"
)

func testRegistry() *SpotRegistry {
	// car spots get ids 1-2, bike 3, truck 4 (stable VehicleTypes order).
	return NewSpotRegistry(map[model.VehicleType]int{
		model.VehicleCar:   2,
		model.VehicleBike:  1,
		model.VehicleTruck: 1,
	})
}

func TestNewSpotRegistryNumbering(t *testing.T) {
	r := testRegistry()

	if r.Size() != 4 {
		t.Fatalf("Expected 4 spots, got %d", r.Size())
	}
	spot, err := r.FindFreeSpot(model.VehicleBike)
	if err != nil {
		t.Fatalf("FindFreeSpot: unexpected error: %v", err)
	}
	if spot.ID != 3 {
		t.Errorf("Expected bike spot id 3, got %d", spot.ID)
	}
	spot, err = r.FindFreeSpot(model.VehicleTruck)
	if err != nil {
		t.Fatalf("FindFreeSpot: unexpected error: %v", err)
	}
	if spot.ID != 4 {
		t.Errorf("Expected truck spot id 4, got %d", spot.ID)
	}
}

func TestFindFreeSpotLowestID(t *testing.T) {
	r := testRegistry()

	spot, err := r.FindFreeSpot(model.VehicleCar)
	if err != nil {
		t.Fatalf("FindFreeSpot: unexpected error: %v", err)
	}
	if spot.ID != 1 {
		t.Errorf("Expected lowest free car spot 1, got %d", spot.ID)
	}

	if err := r.MarkOccupied(1); err != nil {
		t.Fatalf("MarkOccupied: unexpected error: %v", err)
	}
	spot, err = r.FindFreeSpot(model.VehicleCar)
	if err != nil {
		t.Fatalf("FindFreeSpot: unexpected error: %v", err)
	}
	if spot.ID != 2 {
		t.Errorf("Expected next free car spot 2, got %d", spot.ID)
	}

	// Freeing spot 1 makes it the lowest-id candidate again.
	if err := r.MarkFree(1); err != nil {
		t.Fatalf("MarkFree: unexpected error: %v", err)
	}
	spot, err = r.FindFreeSpot(model.VehicleCar)
	if err != nil {
		t.Fatalf("FindFreeSpot: unexpected error: %v", err)
	}
	if spot.ID != 1 {
		t.Errorf("Expected freed spot 1 to be reused, got %d", spot.ID)
	}
}

func TestFindFreeSpotNoneAvailable(t *testing.T) {
	r := testRegistry()
	if err := r.MarkOccupied(3); err != nil {
		t.Fatalf("MarkOccupied: unexpected error: %v", err)
	}

	_, err := r.FindFreeSpot(model.VehicleBike)
	if !errors.Is(err, ErrNoSpotAvailable) {
		t.Errorf("Expected ErrNoSpotAvailable, got %v", err)
	}
	// Other types are unaffected.
	if _, err := r.FindFreeSpot(model.VehicleCar); err != nil {
		t.Errorf("Expected a free car spot, got %v", err)
	}
}

func TestMarkTransitions(t *testing.T) {
	r := testRegistry()

	if err := r.MarkOccupied(1); err != nil {
		t.Fatalf("MarkOccupied: unexpected error: %v", err)
	}
	if err := r.MarkOccupied(1); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition on double occupy, got %v", err)
	}
	if err := r.MarkFree(1); err != nil {
		t.Fatalf("MarkFree: unexpected error: %v", err)
	}
	if err := r.MarkFree(1); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("Expected ErrInvalidStateTransition on double free, got %v", err)
	}
	if err := r.MarkOccupied(99); !errors.Is(err, ErrSpotNotFound) {
		t.Errorf("Expected ErrSpotNotFound for unknown spot, got %v", err)
	}
}

func TestStatsConsistency(t *testing.T) {
	r := testRegistry()

	total, occupied := r.Stats()
	if total != 4 || occupied != 0 {
		t.Fatalf("Expected 4 total / 0 occupied, got %d / %d", total, occupied)
	}

	_ = r.MarkOccupied(1)
	_ = r.MarkOccupied(3)
	total, occupied = r.Stats()
	if total != 4 || occupied != 2 {
		t.Errorf("Expected 4 total / 2 occupied, got %d / %d", total, occupied)
	}
	if free := total - occupied; free != 2 {
		t.Errorf("Expected 2 free spots, got %d", free)
	}
}
