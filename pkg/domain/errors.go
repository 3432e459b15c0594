package domain

import "errors"

var (
	// ErrValidation is returned when a request is missing a parameter.
	ErrValidation = errors.New("validation failed")

	// ErrUpstream is returned when the rate provider is unreachable, times out
	// or answers with anything but a successful rate table.
	ErrUpstream = errors.New("rate provider unavailable")

	// ErrCache is returned when the rate cache cannot be read.
	ErrCache = errors.New("rate cache unavailable")

	// ErrNotFound is returned when the table has no rates or lacks the
	// requested currency.
	ErrNotFound = errors.New("not found")

	// ErrInternal covers parse and arithmetic failures.
	ErrInternal = errors.New("internal error")
)
