package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on create.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNoCart is returned by cart operations that require an existing
	// cart before one has been resolved.
	ErrNoCart = errors.New("no cart")
)
