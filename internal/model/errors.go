package model

import "errors"

var (
	// ErrNotFound means the identifier resolved to nothing in any catalog.
	// Recoverable: the caller can try another identifier or register a
	// custom product.
	ErrNotFound = errors.New("product not found")

	// ErrLookupFailed means a remote lookup failed at the transport level
	// (timeout, unexpected status). Never downgraded to ErrNotFound.
	ErrLookupFailed = errors.New("remote lookup failed")

	// ErrInvalidAmount rejects non-positive consumed amounts.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidMealType rejects meal types outside breakfast, lunch,
	// dinner, snack.
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrNoData is returned by the weekly summary when none of the 7 days
	// has an entry. A legitimate outcome, distinct from an all-zero result.
	ErrNoData = errors.New("no entries in the last 7 days")
)
