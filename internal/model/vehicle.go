package model

import "strings"

// VehicleType enumerates the vehicle categories the facility accepts.  Each
// type maps to its own hourly rate in the fee policy and to the spot type
// that can accommodate it.
type VehicleType string

const (
	VehicleCar   VehicleType = "car"   // standard passenger car
	VehicleBike  VehicleType = "bike"  // motorcycle or bicycle
	VehicleTruck VehicleType = "truck" // truck or other oversized vehicle
)

// VehicleTypes returns all known vehicle types in a stable order.  The
// order determines spot numbering when the registry is built, so it must
// not change between releases.
func VehicleTypes() []VehicleType {
	return []VehicleType{VehicleCar, VehicleBike, VehicleTruck}
}

// ParseVehicleType normalizes and validates a client-supplied vehicle type
// string.  Input is lower-cased and trimmed before comparison.  The second
// return value reports whether the string named a known type.
func ParseVehicleType(s string) (VehicleType, bool) {
	switch VehicleType(strings.ToLower(strings.TrimSpace(s))) {
	case VehicleCar:
		return VehicleCar, true
	case VehicleBike:
		return VehicleBike, true
	case VehicleTruck:
		return VehicleTruck, true
	}
	return "", false
}
