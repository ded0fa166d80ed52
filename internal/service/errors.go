package service

import "errors"

// Error taxonomy surfaced to the HTTP layer. Services wrap these with
// fmt.Errorf("...: %w", ...) and handlers map them to statuses via errors.Is;
// anything unmatched is a persistence failure and becomes a 500 with the
// underlying message.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyCompleted   = errors.New("attempt already completed")
	ErrInsufficientPool   = errors.New("not enough eligible questions")
	ErrNotPublished       = errors.New("test is not published")
	ErrOutOfWindow        = errors.New("test is outside its date window")
	ErrMaxAttemptsReached = errors.New("maximum attempts reached")
)
