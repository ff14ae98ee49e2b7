package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/smart-parking/internal/model"
)

// SessionStore is the durable in-process collection of parking sessions,
// open and closed.  It indexes sessions by id and by active license plate
// and is the single owner of all session records: the allocation engine
// is the only writer, the query service reads snapshots.  Closed sessions
// are kept forever as the historical record for search and reports.
type SessionStore struct {
	mu            sync.RWMutex
	nextID        uint64
	sessions      []*model.Session          // creation order
	byID          map[uint64]*model.Session // id -> session
	activeByPlate map[string]*model.Session // normalized plate -> active session
}

// NewSessionStore returns an empty store.  Session ids start at 1 and
// increase monotonically.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		nextID:        1,
		byID:          make(map[uint64]*model.Session),
		activeByPlate: make(map[string]*model.Session),
	}
}

// Create appends a new active session and assigns its unique id.  The id
// is populated on the provided record, mirroring how the database layer
// of a SQL-backed store would return the generated key.  The plate must
// already be normalized; at most one active session may exist per plate,
// which the allocation engine enforces before calling Create.
func (st *SessionStore) Create(s *model.Session) uint64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	s.ID = st.nextID
	st.nextID++
	rec := *s // store our own copy, detached from the caller's
	st.sessions = append(st.sessions, &rec)
	st.byID[rec.ID] = &rec
	st.activeByPlate[rec.LicensePlate] = &rec
	return rec.ID
}

// GetActiveByPlate returns the active session for the given normalized
// plate, or ErrSessionNotFound when the vehicle is not currently parked.
// It is used both to reject duplicate entries and to resolve exits.
func (st *SessionStore) GetActiveByPlate(plate string) (model.Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.activeByPlate[plate]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	return *s, nil
}

// Close records the exit time and fee on the identified session, exactly
// once.  Returns ErrSessionNotFound for an unknown id and ErrAlreadyClosed
// when the session already has an exit time.  On success the closed
// session is returned by value and the plate's active index entry is
// removed.
func (st *SessionStore) Close(id uint64, exitTime time.Time, fee int64) (model.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.byID[id]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	if s.ExitTime != nil {
		return model.Session{}, ErrAlreadyClosed
	}
	et := exitTime
	f := fee
	s.ExitTime = &et
	s.TotalFee = &f
	delete(st.activeByPlate, s.LicensePlate)
	return *s, nil
}

// ListActive returns all open sessions ordered by entry time ascending.
func (st *SessionStore) ListActive() []model.Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	out := make([]model.Session, 0, len(st.activeByPlate))
	for _, s := range st.sessions {
		if s.ExitTime == nil {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EntryTime.Before(out[j].EntryTime) })
	return out
}

// ActiveCount returns the number of open sessions.
func (st *SessionStore) ActiveCount() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.activeByPlate)
}

// SearchFilter describes the optional, independently combinable filters
// accepted by Search.  The zero value matches every session.
type SearchFilter struct {
	Plate       string            // match on license plate; substring unless ExactPlate
	ExactPlate  bool              // require an exact plate match
	ID          uint64            // match a single session id (0 = no filter)
	VehicleType model.VehicleType // match on vehicle type ("" = no filter)
	From        *time.Time        // entry_time >= From
	To          *time.Time        // entry_time < To
	OnlyClosed  bool              // exclude sessions that are still active
	Limit       int               // cap on results (0 = unlimited)
}

// Search returns sessions matching the filter, ordered by entry time
// descending (most recent first) for user-facing review.  The plate
// filter expects normalized input; substring matching lets operators look
// up partial plates.
func (st *SessionStore) Search(f SearchFilter) []model.Session {
	st.mu.RLock()
	out := make([]model.Session, 0)
	for _, s := range st.sessions {
		if !matches(s, f) {
			continue
		}
		out = append(out, *s)
	}
	st.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EntryTime.Equal(out[j].EntryTime) {
			return out[i].ID > out[j].ID
		}
		return out[i].EntryTime.After(out[j].EntryTime)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func matches(s *model.Session, f SearchFilter) bool {
	if f.ID != 0 && s.ID != f.ID {
		return false
	}
	if f.Plate != "" {
		if f.ExactPlate {
			if s.LicensePlate != f.Plate {
				return false
			}
		} else if !strings.Contains(s.LicensePlate, f.Plate) {
			return false
		}
	}
	if f.VehicleType != "" && s.VehicleType != f.VehicleType {
		return false
	}
	if f.From != nil && s.EntryTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !s.EntryTime.Before(*f.To) {
		return false
	}
	if f.OnlyClosed && s.ExitTime == nil {
		return false
	}
	return true
}
