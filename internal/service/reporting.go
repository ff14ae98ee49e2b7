package service

import (
	"time"

	"github.com/iliyamo/smart-parking/internal/model"
	"github.com/iliyamo/smart-parking/internal/repository"
)

// QueryService exposes the read side of the engine: active-session
// listing, filtered search, earnings reports and live occupancy stats.
// It reads the spot registry and session store without ever mutating
// them, so it can run concurrently with allocation.  Reads are
// snapshots; strict linearizability with in-flight entries is not
// required by the consumers (the UI polls).
type QueryService struct {
	registry *repository.SpotRegistry
	store    *repository.SessionStore
}

// NewQueryService constructs the query service.  Both dependencies must
// be non-nil.
func NewQueryService(registry *repository.SpotRegistry, store *repository.SessionStore) *QueryService {
	if registry == nil || store == nil {
		panic("nil dependency passed to NewQueryService")
	}
	return &QueryService{registry: registry, store: store}
}

// ActiveSessions returns all open sessions ordered by entry time
// ascending.
func (q *QueryService) ActiveSessions() []model.Session {
	return q.store.ListActive()
}

// Search returns sessions matching the filter, most recent first.
func (q *QueryService) Search(f repository.SearchFilter) []model.Session {
	return q.store.Search(f)
}

// Report returns the closed sessions whose entry time falls in the given
// range together with the sum of their fees.  Sessions still active are
// excluded entirely: their fee is undefined, so they contribute neither
// to the list nor to the total.  Either bound may be nil for an open
// range.
func (q *QueryService) Report(from, to *time.Time) (totalEarnings int64, sessions []model.Session) {
	sessions = q.store.Search(repository.SearchFilter{From: from, To: to, OnlyClosed: true})
	for _, s := range sessions {
		if s.TotalFee != nil {
			totalEarnings += *s.TotalFee
		}
	}
	return totalEarnings, sessions
}

// Stats describes the live occupancy of the lot.  The spot counts come
// from one registry snapshot, so occupied + free == total always holds.
type Stats struct {
	TotalSpots     int `json:"total_spots"`
	OccupiedSpots  int `json:"occupied_spots"`
	FreeSpots      int `json:"free_spots"`
	ActiveSessions int `json:"active_sessions"`
}

// Stats returns the current occupancy counters.  The UI polls this every
// few seconds; a pull model suffices, no push channel is needed.
func (q *QueryService) Stats() Stats {
	total, occupied := q.registry.Stats()
	return Stats{
		TotalSpots:     total,
		OccupiedSpots:  occupied,
		FreeSpots:      total - occupied,
		ActiveSessions: q.store.ActiveCount(),
	}
}
