package service

import "errors"

// Common service-level errors.
var (
	// ErrInvalidCredentials is returned for any login failure. An unknown
	// email and a wrong password produce this same error so callers
	// cannot learn which one was at fault.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAvatarTooLarge is returned when an uploaded avatar exceeds the
	// size limit.
	ErrAvatarTooLarge = errors.New("avatar exceeds maximum size")

	// ErrAvatarBadFormat is returned when an uploaded avatar has an
	// unsupported extension or cannot be decoded as an image.
	ErrAvatarBadFormat = errors.New("avatar must be a png, jpg or jpeg image")
)
