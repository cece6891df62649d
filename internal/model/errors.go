package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound      = errors.New("player not found")
	ErrInvalidName         = errors.New("display name must be 1-16 characters")
	ErrInsufficientCredits = errors.New("not enough credits")
	ErrUnknownItem         = errors.New("unknown item")
	ErrItemNotHeld         = errors.New("item not held")

	// Score errors
	ErrInvalidScore = errors.New("score must be a non-negative finite number")

	// Anti-cheat errors (wrapped with diagnostics by the validator)
	ErrNoActiveRun     = errors.New("no active run for this player")
	ErrTooFast         = errors.New("run finished faster than physically possible")
	ErrUnnaturalRhythm = errors.New("input cadence is suspiciously mechanical")

	// Claim errors
	ErrWinnerNotFound = errors.New("no winner record matches")
	ErrWinnerExists   = errors.New("winner record already exists for epoch")
	ErrInvalidClaim   = errors.New("claim secret does not match")

	// Authorization errors
	ErrUnauthorized = errors.New("admin key required")
)
