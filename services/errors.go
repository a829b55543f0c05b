package services

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNotFoundOrForbidden = errors.New("task not found or access denied")
	ErrPasswordTooLong     = errors.New("password must be at most 72 bytes")
	ErrCommonPassword      = errors.New("password is too common")
	// ErrStorage wraps every data store failure. It aborts the request.
	ErrStorage = errors.New("storage error")
)

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
