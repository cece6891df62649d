package apierr

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/sasakorman/taxrunner/internal/model"
	"github.com/sasakorman/taxrunner/internal/services/anticheat"
)

// APIError represents an API error response
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeInvalidName         = "INVALID_NAME"
	CodeInvalidScore        = "INVALID_SCORE"
	CodePlayerNotFound      = "PLAYER_NOT_FOUND"
	CodeUnknownItem         = "UNKNOWN_ITEM"
	CodeItemNotHeld         = "ITEM_NOT_HELD"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeNoActiveRun         = "NO_ACTIVE_RUN"
	CodeTooFast             = "TOO_FAST"
	CodeUnnaturalRhythm     = "UNNATURAL_RHYTHM"
	CodeWinnerNotFound      = "WINNER_NOT_FOUND"
	CodeInvalidClaim        = "INVALID_CLAIM"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternalError       = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for pre-built HTTP errors
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Anti-cheat rejections carry diagnostics
	var tooFast *anticheat.TooFastError
	if errors.As(err, &tooFast) {
		return &httpError{http.StatusBadRequest, APIError{
			Code:    CodeTooFast,
			Message: "Run finished faster than this score allows",
			Details: map[string]any{
				"requiredSeconds": tooFast.RequiredSeconds,
				"elapsedSeconds":  tooFast.ElapsedSeconds,
			},
		}}
	}
	var rhythm *anticheat.UnnaturalRhythmError
	if errors.As(err, &rhythm) {
		return &httpError{http.StatusBadRequest, APIError{
			Code:    CodeUnnaturalRhythm,
			Message: "Input cadence is suspiciously mechanical",
			Details: map[string]any{"stdDev": rhythm.StdDev},
		}}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidName):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidName, Message: "Display name must be 1-16 characters"}}
	case errors.Is(err, model.ErrInvalidScore):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidScore, Message: "Score must be a non-negative finite number"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodePlayerNotFound, Message: "Player not found"}}
	case errors.Is(err, model.ErrUnknownItem):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeUnknownItem, Message: "Unknown item"}}
	case errors.Is(err, model.ErrItemNotHeld):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeItemNotHeld, Message: "Item not held"}}
	case errors.Is(err, model.ErrInsufficientCredits):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInsufficientCredits, Message: "Not enough credits"}}
	case errors.Is(err, model.ErrNoActiveRun):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeNoActiveRun, Message: "No active run for this player"}}
	case errors.Is(err, model.ErrWinnerNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeWinnerNotFound, Message: "No winner record matches"}}
	case errors.Is(err, model.ErrInvalidClaim):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidClaim, Message: "Claim secret does not match"}}
	case errors.Is(err, model.ErrUnauthorized):
		return &httpError{http.StatusForbidden, APIError{Code: CodeUnauthorized, Message: "Admin key required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates a forbidden error for a bad admin key
func NewUnauthorizedError() error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeUnauthorized, Message: "Admin key required"}}
}

// NewRateLimitedError creates a 429 carrying the remaining cooldown
func NewRateLimitedError(remaining time.Duration) error {
	secondsLeft := int(math.Ceil(remaining.Seconds()))
	return &httpError{http.StatusTooManyRequests, APIError{
		Code:    CodeRateLimited,
		Message: "Reset is on cooldown",
		Details: map[string]any{"secondsLeft": secondsLeft},
	}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
