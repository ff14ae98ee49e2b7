// Package repository holds the in-memory spot registry and session store
// together with the sentinel error values shared across them.  These
// sentinels let higher layers such as handlers distinguish between
// failure scenarios with errors.Is instead of string matching.  For
// example, ErrNoSpotAvailable rejects an entry when the lot is full,
// while ErrAlreadyClosed guards the close transition from running twice.
package repository

import "errors"

// ErrNoSpotAvailable is returned by FindFreeSpot when no free spot
// compatible with the requested vehicle type exists.  Handlers should
// translate this into an HTTP 409 response.
var ErrNoSpotAvailable = errors.New("no spot available")

// ErrSpotNotFound is returned when a spot id does not exist in the
// registry.  Spot ids are assigned internally, so seeing this error
// outside of tests indicates a programming error.
var ErrSpotNotFound = errors.New("spot not found")

// ErrInvalidStateTransition is returned when a spot is marked occupied
// while already occupied, or marked free while already free.  Callers
// guarantee a single invocation per transition, so this error is a
// programming error rather than a user-facing condition.
var ErrInvalidStateTransition = errors.New("invalid spot state transition")

// ErrSessionNotFound is returned when no session matches the requested
// id or license plate.  Handlers should translate this into an HTTP 404
// response.
var ErrSessionNotFound = errors.New("session not found")

// ErrAlreadyClosed is returned when Close is called on a session that
// already has an exit time recorded.  The close transition happens
// exactly once.
var ErrAlreadyClosed = errors.New("session already closed")
