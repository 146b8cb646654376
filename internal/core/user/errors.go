package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user: not found")
	ErrUsernameAlreadyExists = errors.New("user: username already exists")
	ErrInvalidCredentials    = errors.New("user: invalid username/password")
	ErrInvalidUsername       = errors.New("user: invalid username")
	ErrInvalidPassword       = errors.New("user: invalid password")
	ErrInvalidEmail          = errors.New("user: invalid email")
	ErrNoUpdateFields        = errors.New("user: no fields to update")
	ErrJobNotFound           = errors.New("user: job not found")
	ErrAlreadyApplied        = errors.New("user: already applied to job")
)
