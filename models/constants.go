package models

// Buddy request statuses. Pending is the only non-terminal state.
const (
	StatusPending  = "Pending"
	StatusAccepted = "Accepted"
	StatusRejected = "Rejected"
)

// Buddy request list directions
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
	DirectionBoth     = "both"
)

// TimeLayout is RFC3339 with a fixed-width nanosecond fraction so the
// stored strings sort lexicographically in chronological order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
