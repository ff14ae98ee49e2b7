// Package utils contains small helpers shared across layers.
package utils

import "strings"

// NormalizePlate canonicalizes a license plate for storage and lookup.
// Plates are upper-cased and stripped of surrounding whitespace so that
// "abc123 " and "ABC123" refer to the same vehicle.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}
