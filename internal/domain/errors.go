package domain

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionNotFound    = errors.New("session not found or expired")

	ErrProfileNotFound       = errors.New("profile not found")
	ErrProfileAlreadyExists  = errors.New("profile already exists")
	ErrQuestionNotFound      = errors.New("personality question not found")
	ErrFavoriteNotTaken      = errors.New("favorite courses must be a subset of courses taking")
	ErrReferenceKindUnknown  = errors.New("unknown reference entity kind")
	ErrConnectionNotFound    = errors.New("connection not found")
	ErrInvalidPair           = errors.New("connection requires two distinct users")
	ErrNotAParty             = errors.New("user is not a party to this connection")
	ErrInvalidStatusTransition = errors.New("status can only change from pending")

	// ErrInsufficientData signals that a pairwise score cannot be computed
	// because the users share no answered questions. Callers must surface
	// this distinctly, never as a zero score.
	ErrInsufficientData = errors.New("insufficient data to compute compatibility")
)
