// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrInvalidTransition signals that a status
// change cannot proceed from the reservation's current state
// (e.g. accepting a reservation that is already completed).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrReservationNotFound is returned when a reservation referenced by
// ID does not exist. Handlers should translate this into an HTTP 404
// response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrInvalidTransition is returned when a status change is not allowed
// from the reservation's current status, such as cancelling a
// reservation that has already been completed. Handlers should
// translate this into an HTTP 409 response.
var ErrInvalidTransition = errors.New("invalid status transition")
