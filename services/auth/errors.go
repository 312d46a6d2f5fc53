package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrRegistrationClosed = errors.New("new registrations are currently disabled")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUnauthorized       = errors.New("invalid or expired session")
	ErrNotCustomer        = errors.New("only customer accounts have an editable profile")
)
