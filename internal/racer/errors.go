package racer

import "errors"

var (
	// ErrInvalidSource is returned when the source title does not
	// resolve to an existing article.
	ErrInvalidSource = errors.New("invalid source title")
	// ErrInvalidDestination is returned when the destination title does
	// not resolve to an existing article.
	ErrInvalidDestination = errors.New("invalid destination title")
)
