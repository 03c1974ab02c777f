package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/driveaway/car-rental-api/internal/model"
)

// RentalStore is the rental store consumed by the rental handlers. It is
// satisfied by RentalRepo and by in-memory fakes in tests.
type RentalStore interface {
	Insert(ctx context.Context, rental *model.Rental) error
	GetByID(ctx context.Context, id string) (model.Rental, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type RentalRepo struct{ DB *sql.DB }

var _ RentalStore = (*RentalRepo)(nil)

func NewRentalRepo(db *sql.DB) *RentalRepo { return &RentalRepo{DB: db} }

const rentalColumns = `id, user_id, car_id, car_make, car_model, car_year, car_price, car_image,
	start_date, end_date, total_cost, status, payment_id, payment_date, payment_method, created_at`

// Insert persists a new rental. The opaque rental ID and the creation
// timestamp are assigned here; the caller supplies everything else,
// including the pre-computed total cost and the initial status.
func (r *RentalRepo) Insert(ctx context.Context, rental *model.Rental) error {
	rental.ID = uuid.NewString()
	rental.CreatedAt = time.Now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO rentals (`+rentalColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rental.ID, rental.UserID,
		rental.Car.ID, rental.Car.Make, rental.Car.Model, rental.Car.Year, rental.Car.Price,
		nullStr(rental.Car.Image),
		rental.Details.StartDate, rental.Details.EndDate, rental.Details.TotalCost, rental.Details.Status,
		nullStr(rental.PaymentInfo.PaymentID), rental.PaymentInfo.PaymentDate, nullStr(rental.PaymentInfo.PaymentMethod),
		rental.CreatedAt)
	return err
}

// GetByID fetches a single rental. ErrRentalNotFound is returned when no
// row matches; ownership is checked by the caller.
func (r *RentalRepo) GetByID(ctx context.Context, id string) (model.Rental, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+rentalColumns+` FROM rentals WHERE id=? LIMIT 1`, id)
	rental, err := scanRental(row)
	if err == sql.ErrNoRows {
		return rental, ErrRentalNotFound
	}
	return rental, err
}

// ListByUser returns all rentals owned by the user, most recent first.
// An empty slice, not an error, is returned when the user has none.
func (r *RentalRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Rental, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+rentalColumns+` FROM rentals WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Rental{}
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rental)
	}
	return out, rows.Err()
}

// UpdateStatus overwrites the status column. The value is written as
// given; no check against the known status set is performed here.
func (r *RentalRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE rentals SET status=? WHERE id=?`, status, id)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanRental(s scanner) (model.Rental, error) {
	var (
		rental        model.Rental
		carImage      sql.NullString
		paymentID     sql.NullString
		paymentDate   sql.NullTime
		paymentMethod sql.NullString
	)
	err := s.Scan(
		&rental.ID, &rental.UserID,
		&rental.Car.ID, &rental.Car.Make, &rental.Car.Model, &rental.Car.Year, &rental.Car.Price,
		&carImage,
		&rental.Details.StartDate, &rental.Details.EndDate, &rental.Details.TotalCost, &rental.Details.Status,
		&paymentID, &paymentDate, &paymentMethod,
		&rental.CreatedAt,
	)
	if err != nil {
		return rental, err
	}
	rental.Car.Image = carImage.String
	rental.PaymentInfo.PaymentID = paymentID.String
	rental.PaymentInfo.PaymentMethod = paymentMethod.String
	if paymentDate.Valid {
		t := paymentDate.Time
		rental.PaymentInfo.PaymentDate = &t
	}
	return rental, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
