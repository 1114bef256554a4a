package service

import "errors"

// Sentinel errors for the chat core. The HTTP layer maps these onto
// status codes; nothing below it ever sees a raw database error kind.
var (
	// ErrNotFound is returned when a room or message does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRoomInactive is returned when joining a deactivated room.
	ErrRoomInactive = errors.New("room is no longer active")

	// ErrForbidden is returned when an authenticated user is not a
	// participant of the room they are reaching into.
	ErrForbidden = errors.New("access denied")

	// ErrValidation is returned for empty message text, malformed
	// join codes and unknown language codes.
	ErrValidation = errors.New("invalid input")
)
