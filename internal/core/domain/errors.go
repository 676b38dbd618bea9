package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountNotFound    = errors.New("user not found")
	ErrEditCooldown       = errors.New("you can update only once per day")
)

var (
	ErrNoFiles        = errors.New("no files uploaded")
	ErrObjectNotFound = errors.New("file not found")
	ErrStorage        = errors.New("object storage failure")
)
