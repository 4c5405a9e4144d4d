package services

import "errors"

var (
	// ErrInvalidInput marks client errors: bad file type, missing filename,
	// invalid or foreign category reference, malformed ids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound covers both absent records and records owned by someone
	// else; the two are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned when a category name already exists for
	// the owner.
	ErrDuplicateName = errors.New("name already exists")

	// ErrEmailExists is returned on signup with an already registered email.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned on failed login.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)
