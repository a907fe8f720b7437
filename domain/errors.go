package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrUnauthorized will throw if the caller is not allowed to perform the action
	ErrUnauthorized = errors.New("Not authorized to perform this action")

	// ErrVersionConflict is returned when an optimistic-concurrency check fails.
	// Callers retry against freshly-read state a bounded number of times before
	// surfacing ErrTooManyConflicts.
	ErrVersionConflict  = errors.New("record was modified concurrently")
	ErrTooManyConflicts = errors.New("too many concurrent updates, please retry")

	ErrInvalidSchedule = errors.New("auction end time must be after start time and start time must be in the future")

	ErrDeprecated     = errors.New("deprecated")
	ErrNotImplemented = errors.New("not implemented")
)
