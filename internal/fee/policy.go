// Package fee implements the parking fee policy.  The policy is a pure
// function of vehicle type and stay duration; it performs no I/O and keeps
// no mutable state, which makes it trivially safe to share across requests.
package fee

import (
	"errors"
	"time"

	"github.com/iliyamo/smart-parking/internal/model"
)

// ErrUnknownVehicleType is returned when a fee is requested for a vehicle
// type that has no configured hourly rate.  Callers must not default
// silently; handlers translate this into an HTTP 400 response.
var ErrUnknownVehicleType = errors.New("unknown vehicle type")

// Policy converts a stay duration and vehicle type into a charge.  Billing
// granularity is one hour: partial hours are rounded up, and every stay is
// charged at least one hour's rate.  A negative duration (exit before
// entry, e.g. after a clock adjustment) is clamped to zero so that exit
// always succeeds once a session is found.
type Policy struct {
	rates map[model.VehicleType]int64 // hourly rate per vehicle type, currency units
}

// NewPolicy builds a Policy from the given per-type hourly rates.  The map
// is copied so later mutation by the caller cannot affect the policy.
func NewPolicy(rates map[model.VehicleType]int64) *Policy {
	cp := make(map[model.VehicleType]int64, len(rates))
	for vt, r := range rates {
		cp[vt] = r
	}
	return &Policy{rates: cp}
}

// Knows reports whether the policy has a rate for the given vehicle type.
// The allocation engine checks this at entry so a vehicle can never park
// with a type it cannot later be billed for.
func (p *Policy) Knows(vt model.VehicleType) bool {
	_, ok := p.rates[vt]
	return ok
}

// Compute returns the fee for a stay between entry and exit.  It is
// deterministic and side-effect free.  Returns ErrUnknownVehicleType when
// no rate is configured for vt.
func (p *Policy) Compute(vt model.VehicleType, entry, exit time.Time) (int64, error) {
	rate, ok := p.rates[vt]
	if !ok {
		return 0, ErrUnknownVehicleType
	}
	d := exit.Sub(entry)
	if d < 0 {
		d = 0 // clock skew guard
	}
	hours := int64(d / time.Hour)
	if d%time.Hour > 0 {
		hours++
	}
	if hours < 1 {
		hours = 1 // minimum charge is one hour
	}
	return hours * rate, nil
}
