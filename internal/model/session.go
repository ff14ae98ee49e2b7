package model

import "time"

// Session records one vehicle's stay from entry to exit.  A session is
// created in the active state by the allocation engine and transitions
// exactly once to closed; it is never deleted, so closed sessions remain
// available for search and reporting.
//
// Fields:
//  ID           – unique, monotonically increasing identifier.
//  LicensePlate – normalized plate (upper-cased, trimmed).
//  VehicleType  – vehicle category, must match a fee policy rate.
//  SpotID       – spot assigned at entry, fixed for the session's lifetime.
//  EntryTime    – set at creation, immutable, UTC.
//  ExitTime     – nil while active, set exactly once at close, UTC.
//  TotalFee     – nil while active, set exactly once at close.
type Session struct {
	ID           uint64      // session id
	LicensePlate string      // normalized license plate
	VehicleType  VehicleType // vehicle category
	SpotID       int         // assigned spot (spot_number)
	EntryTime    time.Time   // entry timestamp, UTC
	ExitTime     *time.Time  // exit timestamp, nil while active
	TotalFee     *int64      // computed fee, nil while active
}

// Active reports whether the session is still open.  A session is active
// iff no exit time has been recorded.
func (s Session) Active() bool { return s.ExitTime == nil }
