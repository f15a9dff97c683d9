package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parlorgames/mysteryparty/internal/model"
	"github.com/parlorgames/mysteryparty/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotHost            = "NOT_HOST"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodePartyNotFound      = "PARTY_NOT_FOUND"
	CodePackageNotFound    = "PACKAGE_NOT_FOUND"
	CodeGuestNotFound      = "GUEST_NOT_FOUND"
	CodeInvalidInviteCode  = "INVALID_INVITE_CODE"
	CodePartyNotJoinable   = "PARTY_NOT_JOINABLE"
	CodeAlreadyJoined      = "ALREADY_JOINED"
	CodePartyFull          = "PARTY_FULL"
	CodeInvalidTransition  = "INVALID_STATE_TRANSITION"
	CodeInvalidMaxGuests   = "INVALID_MAX_GUESTS"
	CodeNotPartyMember     = "NOT_PARTY_MEMBER"
	CodeSectionLocked      = "SECTION_LOCKED"
	CodeUnknownCharacter   = "UNKNOWN_CHARACTER"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStoreContended     = "STORE_CONTENDED"
	CodeInternalError      = "INTERNAL_ERROR"
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
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrPartyNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePartyNotFound, "Party not found"}}
	case errors.Is(err, model.ErrPackageNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePackageNotFound, "Mystery package not found"}}
	case errors.Is(err, model.ErrGuestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGuestNotFound, "Guest not found"}}
	case errors.Is(err, model.ErrInvalidInviteCode):
		return &httpError{http.StatusNotFound, APIError{CodeInvalidInviteCode, "Invite code is not valid"}}
	case errors.Is(err, model.ErrPartyNotJoinable):
		return &httpError{http.StatusConflict, APIError{CodePartyNotJoinable, "Party is not accepting guests"}}
	case errors.Is(err, model.ErrAlreadyJoined):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyJoined, "Already joined this party"}}
	case errors.Is(err, model.ErrPartyFull):
		return &httpError{http.StatusConflict, APIError{CodePartyFull, "Party is at capacity"}}
	case errors.Is(err, model.ErrInvalidStateTransition):
		return &httpError{http.StatusConflict, APIError{CodeInvalidTransition, "Party is not in the required state"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrInvalidMaxGuests):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidMaxGuests, "Guest capacity must be positive"}}
	case errors.Is(err, model.ErrNotPartyMember):
		return &httpError{http.StatusForbidden, APIError{CodeNotPartyMember, "Only a joined guest can perform this action"}}
	case errors.Is(err, model.ErrSectionLocked):
		return &httpError{http.StatusConflict, APIError{CodeSectionLocked, "This part of the game has not been unlocked yet"}}
	case errors.Is(err, model.ErrUnknownCharacter):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownCharacter, "Character is not part of this package"}}
	case errors.Is(err, model.ErrStoreContended):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeStoreContended, "Too much contention, retry the request"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
