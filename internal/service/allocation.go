// Package service contains the allocation engine that drives the session
// lifecycle, the read-only query service and the queue publisher.
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/smart-parking/internal/fee"
	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/utils"
)

// ErrVehicleAlreadyParked is returned by Entry when the plate already has
// an active session.  A vehicle cannot occupy two spots at once.
// Handlers should translate this into an HTTP 409 response.
var ErrVehicleAlreadyParked = errors.New("vehicle already parked")

// AllocationEngine orchestrates entry and exit as atomic operations over
// the spot registry, session store and fee policy.  A single mutex
// serializes the whole read-modify-write sequence of both transitions:
// spot selection followed by occupancy marking is a check-then-act that
// would double-allocate under concurrent entries without it.  Queries go
// through the QueryService and never take this lock.
type AllocationEngine struct {
	mu       sync.Mutex
	registry *repository.SpotRegistry
	store    *repository.SessionStore
	fees     *fee.Policy
	now      func() time.Time // injectable clock for tests
}

// NewAllocationEngine constructs the engine.  All dependencies must be
// non-nil.
func NewAllocationEngine(registry *repository.SpotRegistry, store *repository.SessionStore, fees *fee.Policy) *AllocationEngine {
	if registry == nil || store == nil || fees == nil {
		panic("nil dependency passed to NewAllocationEngine")
	}
	return &AllocationEngine{
		registry: registry,
		store:    store,
		fees:     fees,
		now:      time.Now,
	}
}

// Entry admits a vehicle: it rejects a plate that is already parked,
// picks the lowest-id free compatible spot, marks it occupied and opens a
// session with the current time.  The plate is normalized before any
// lookup.  On ErrNoSpotAvailable the registry is left untouched.
func (e *AllocationEngine) Entry(plate string, vt model.VehicleType) (model.Session, error) {
	plate = utils.NormalizePlate(plate)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.store.GetActiveByPlate(plate); err == nil {
		return model.Session{}, ErrVehicleAlreadyParked
	}
	// Reject types the policy cannot bill rather than discovering the
	// missing rate at exit time.
	if !e.fees.Knows(vt) {
		return model.Session{}, fee.ErrUnknownVehicleType
	}
	spot, err := e.registry.FindFreeSpot(vt)
	if err != nil {
		return model.Session{}, err
	}
	if err := e.registry.MarkOccupied(spot.ID); err != nil {
		// Unreachable while the engine lock serializes entries; surfaced
		// anyway so a registry/store disagreement never goes unnoticed.
		return model.Session{}, fmt.Errorf("mark spot %d occupied: %w", spot.ID, err)
	}
	s := model.Session{
		LicensePlate: plate,
		VehicleType:  vt,
		SpotID:       spot.ID,
		EntryTime:    e.now().UTC(),
	}
	e.store.Create(&s)
	return s, nil
}

// Exit closes the plate's active session: it computes the fee, records
// exit time and fee on the session and frees the spot.  This is the
// terminal transition; a closed session never re-opens.  Returns
// repository.ErrSessionNotFound when the plate has no active session.
func (e *AllocationEngine) Exit(plate string) (model.Session, error) {
	plate = utils.NormalizePlate(plate)

	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.store.GetActiveByPlate(plate)
	if err != nil {
		return model.Session{}, err
	}
	exitTime := e.now().UTC()
	amount, err := e.fees.Compute(s.VehicleType, s.EntryTime, exitTime)
	if err != nil {
		return model.Session{}, err
	}
	closed, err := e.store.Close(s.ID, exitTime, amount)
	if err != nil {
		return model.Session{}, err
	}
	if err := e.registry.MarkFree(s.SpotID); err != nil {
		return model.Session{}, fmt.Errorf("free spot %d: %w", s.SpotID, err)
	}
	return closed, nil
}
