package domain

import "errors"

var (
	// ErrInvalidOption is returned when a selected option is outside the question's option range.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidIndex is returned for navigation targets outside the question range.
	ErrInvalidIndex = errors.New("invalid question index")
	// ErrInvalidState is returned when a mutating operation hits a completed session.
	ErrInvalidState = errors.New("session is not in progress")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrInvalidBank indicates bank content violates a question invariant.
	ErrInvalidBank = errors.New("invalid question bank")
	// ErrAttemptNotFound is returned when an attempt id is unknown or already discarded.
	ErrAttemptNotFound = errors.New("attempt not found")
)
