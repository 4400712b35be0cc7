package services

import "errors"

// Sentinel errors the handlers map to HTTP statuses.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response never says which one it was.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	ErrRoomNotFound    = errors.New("room not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrNotAllowed is the ownership violation: a non-host touching a room
	// or a non-author deleting a message.
	ErrNotAllowed = errors.New("you are not allowed here")
)
