package usecase

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentialFormat is returned when the email or password fails basic shape validation.
	ErrInvalidCredentialFormat = errors.New("invalid credential format")

	// ErrInvalidCredentials is returned when login fails because the email or password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
