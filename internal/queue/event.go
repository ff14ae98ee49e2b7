// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// SessionClosedQueueName is the durable queue carrying closed-session events.
const SessionClosedQueueName = "session.closed"

// SessionClosedEvent is published when a parking session is closed at
// exit.  It carries enough information for downstream consumers to log,
// notify or feed analytics without querying the engine.  Timestamps are
// RFC3339 UTC strings.
type SessionClosedEvent struct {
	EventID      string `json:"event_id"` // random UUID per publication
	SessionID    uint64 `json:"session_id"`
	LicensePlate string `json:"license_plate"`
	VehicleType  string `json:"vehicle_type"`
	SpotNumber   int    `json:"spot_number"`
	EntryTime    string `json:"entry_time"`
	ExitTime     string `json:"exit_time"`
	TotalFee     int64  `json:"total_fee"`
	ClosedAt     string `json:"closed_at"`
}
