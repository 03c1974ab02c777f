// Package repository implements the persistence layer over MySQL and
// defines the sentinel errors shared by its repositories. Handlers use
// these values to map store outcomes onto HTTP statuses without
// inspecting driver errors.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email address that
// already has an account. Handlers translate this into HTTP 400.
var ErrEmailExists = errors.New("email already exists")

// ErrRentalNotFound is returned when no rental with the requested id
// exists. Handlers translate this into HTTP 404. The ownership check is
// performed by the handler after the lookup, so a rental that exists but
// belongs to someone else yields 403, not 404.
var ErrRentalNotFound = errors.New("rental not found")
