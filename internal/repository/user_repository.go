package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/driveaway/car-rental-api/internal/model"
)

// UserStore is the credential store consumed by the auth handlers. It is
// satisfied by UserRepo and by in-memory fakes in tests.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
}

type UserRepo struct{ DB *sql.DB }

var _ UserStore = (*UserRepo)(nil)

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and populates its generated ID. The users table
// carries a unique index on email; a duplicate-key failure is mapped to
// ErrEmailExists so the check-then-insert race in registration cannot
// produce two accounts for one address.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, email, password_hash) VALUES (?,?,?,?)",
		u.FirstName, u.LastName, u.Email, u.PasswordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by email. Emails are matched as stored;
// sql.ErrNoRows is returned when no account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,first_name,last_name,email,password_hash,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}
