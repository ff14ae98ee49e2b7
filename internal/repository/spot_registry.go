package repository

import (
	"sync"

	"github.com/iliyamo/smart-parking/internal/model"
)

// SpotRegistry owns the fixed pool of parking spots.  The pool is built
// once from the configured lot layout; afterwards only the occupancy flag
// of each spot changes.  All methods are individually safe for concurrent
// use.  The find-then-mark sequence at entry is a check-then-act and is
// additionally serialized by the allocation engine's own lock, so two
// concurrent entries can never claim the same spot.
type SpotRegistry struct {
	mu    sync.RWMutex
	spots []*model.Spot // ordered by ascending id; ids are 1..len(spots)
}

// NewSpotRegistry builds the spot pool from the given layout, a count of
// spots per vehicle type.  Spots are numbered sequentially starting at 1,
// grouped by type in the stable order of model.VehicleTypes, so a given
// layout always yields the same numbering.
func NewSpotRegistry(layout map[model.VehicleType]int) *SpotRegistry {
	var spots []*model.Spot
	id := 1
	for _, vt := range model.VehicleTypes() {
		for i := 0; i < layout[vt]; i++ {
			spots = append(spots, &model.Spot{ID: id, Type: vt})
			id++
		}
	}
	return &SpotRegistry{spots: spots}
}

// FindFreeSpot selects the free spot with the lowest id that accepts the
// given vehicle type.  The lowest-id tie-break keeps allocation
// deterministic and testable.  Returns ErrNoSpotAvailable when every
// compatible spot is occupied.  The returned value is a copy; occupancy
// is changed only through MarkOccupied/MarkFree.
func (r *SpotRegistry) FindFreeSpot(vt model.VehicleType) (model.Spot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.spots {
		if s.Type == vt && !s.Occupied {
			return *s, nil
		}
	}
	return model.Spot{}, ErrNoSpotAvailable
}

// MarkOccupied flips the spot to occupied.  The caller guarantees a single
// invocation per transition: occupying an already occupied spot returns
// ErrInvalidStateTransition.
func (r *SpotRegistry) MarkOccupied(spotID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(spotID)
	if err != nil {
		return err
	}
	if s.Occupied {
		return ErrInvalidStateTransition
	}
	s.Occupied = true
	return nil
}

// MarkFree flips the spot back to free.  Freeing an already free spot
// returns ErrInvalidStateTransition.
func (r *SpotRegistry) MarkFree(spotID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, err := r.lookup(spotID)
	if err != nil {
		return err
	}
	if !s.Occupied {
		return ErrInvalidStateTransition
	}
	s.Occupied = false
	return nil
}

// lookup resolves a spot by id.  Ids are dense (1..len), so this is an
// index access with a bounds check.  Caller must hold the lock.
func (r *SpotRegistry) lookup(spotID int) (*model.Spot, error) {
	if spotID < 1 || spotID > len(r.spots) {
		return nil, ErrSpotNotFound
	}
	return r.spots[spotID-1], nil
}

// Stats returns the total and occupied spot counts from a single
// consistent snapshot, so total == occupied + free always holds for one
// call's results.
func (r *SpotRegistry) Stats() (total, occupied int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.spots {
		if s.Occupied {
			occupied++
		}
	}
	return len(r.spots), occupied
}

// Size returns the number of spots in the pool.
func (r *SpotRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.spots)
}
