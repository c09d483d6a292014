package errs

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrNoCopiesAvailable = errors.New("no copies available right now")
	ErrDeserialization   = errors.New("stored bucket is corrupted")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown borrow status")
	ErrInvalidRole       = errors.New("unknown user role")
	ErrInvalidEmail      = errors.New("invalid email")
)
