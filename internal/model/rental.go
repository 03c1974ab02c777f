package model

import (
	"math"
	"time"
)

// Rental statuses. A rental starts out pending and can only be cancelled
// while it is still pending or active; completed and cancelled are
// terminal for the cancel operation. Note that the status-update endpoint
// persists arbitrary strings, so values outside this set can appear in
// stored records.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Car is a snapshot of the rented car captured at creation time. There is
// no car catalogue in this service; the payload is client-supplied and
// stored as given.
type Car struct {
	ID    int64   `json:"id"`
	Make  string  `json:"make"`
	Model string  `json:"model"`
	Year  int     `json:"year"`
	Price float64 `json:"price"` // price per day
	Image string  `json:"image,omitempty"`
}

// RentalDetails holds the rental window, the server-computed total cost
// and the current status.
type RentalDetails struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	TotalCost float64   `json:"totalCost"`
	Status    string    `json:"status"`
}

// PaymentInfo carries opaque payment fields. They are stored as given and
// never validated or processed.
type PaymentInfo struct {
	PaymentID     string     `json:"paymentId,omitempty"`
	PaymentDate   *time.Time `json:"paymentDate,omitempty"`
	PaymentMethod string     `json:"paymentMethod,omitempty"`
}

// Rental is a reservation of a car by a user for a date range. UserID is
// immutable after creation; no operation reassigns ownership.
type Rental struct {
	ID          string        `json:"id"`
	UserID      uint64        `json:"user"`
	Car         Car           `json:"car"`
	Details     RentalDetails `json:"rentalDetails"`
	PaymentInfo PaymentInfo   `json:"paymentInfo"`
	CreatedAt   time.Time     `json:"createdAt"`
}

const msPerDay = 24 * 60 * 60 * 1000

// TotalCost computes the rental price from the per-day rate and the
// rental window: ceil((end-start) in ms / one day in ms) * price. Any
// fractional day counts as a full day and a zero-length window costs
// nothing. Windows with end before start produce a negative cost; no
// validation is applied here, matching the create endpoint's contract.
func TotalCost(pricePerDay float64, start, end time.Time) float64 {
	days := math.Ceil(float64(end.Sub(start).Milliseconds()) / float64(msPerDay))
	return pricePerDay * days
}

// CanCancel reports whether a rental in the given status may still be
// cancelled.
func CanCancel(status string) bool {
	return status == StatusPending || status == StatusActive
}
