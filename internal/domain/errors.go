package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden indicates the caller lacks permission for the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated indicates no valid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEmptyCart indicates order materialization was attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition indicates a status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrConflict indicates the operation was already applied once, e.g. an
	// order that has already been partitioned into payments.
	ErrConflict = errors.New("conflict")
	// ErrValidation indicates malformed input shape or values.
	ErrValidation = errors.New("validation failed")
)
