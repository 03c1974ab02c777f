// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Event types published on rental lifecycle transitions.
const (
	EventRentalCreated       = "rental.created"
	EventRentalStatusUpdated = "rental.status_updated"
	EventRentalCancelled     = "rental.cancelled"
)

// RentalEvent is published whenever a rental is created or changes
// status. It contains enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary
// database.
type RentalEvent struct {
	Type       string  `json:"type"`
	RentalID   string  `json:"rental_id"`
	UserID     uint64  `json:"user_id"`
	CarMake    string  `json:"car_make"`
	CarModel   string  `json:"car_model"`
	Status     string  `json:"status"`
	TotalCost  float64 `json:"total_cost"`
	OccurredAt string  `json:"occurred_at"`
}
