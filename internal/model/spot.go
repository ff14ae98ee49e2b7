package model

// Spot describes a single physical parking space.  Spots are created once
// at startup from the configured lot layout and never added or removed
// afterwards.  The numeric ID doubles as the public spot_number.
//
// Fields:
//  ID       – sequential identifier, 1..N, stable for the process lifetime.
//  Type     – vehicle type this spot accepts.
//  Occupied – whether an active session currently references this spot.
type Spot struct {
	ID       int         // spot id, exposed as spot_number
	Type     VehicleType // vehicle type the spot accepts
	Occupied bool        // true while an active session holds the spot
}
