package env

import "errors"

var (
	// ErrNotFound is returned when an expected marker resource is absent.
	ErrNotFound = errors.New("resource not found")
	// ErrFormat is returned when a resolved resource URL has an unexpected shape.
	ErrFormat = errors.New("malformed resource url")
	// ErrIllegalState is returned when no usable location can be derived.
	ErrIllegalState = errors.New("invalid state")
	// ErrIO wraps filesystem access failures.
	ErrIO = errors.New("i/o failure")
)
