package domain

import "errors"

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrGuildNotFound       = errors.New("guild not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrUsernameTaken       = errors.New("username taken")
	ErrInvalidEventType    = errors.New("invalid event type")
	ErrInvalidAwardType    = errors.New("invalid award type")
	ErrMalformedDetails    = errors.New("malformed event details")
	ErrAwardAlreadyGranted = errors.New("award already granted")
	ErrInvalidArgument     = errors.New("invalid argument")
)
