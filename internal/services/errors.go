package services

import "errors"

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session")
	ErrSessionUnavailable = errors.New("session user could not be loaded")
	ErrSectionNotFound    = errors.New("section not found")
	ErrForbidden          = errors.New("section belongs to another user")
)
