package handler

import (
	"net/http"

	"github.com/parlorgames/mysteryparty/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeNotHost            = apierr.CodeNotHost
	CodeUserNotFound       = apierr.CodeUserNotFound
	CodePartyNotFound      = apierr.CodePartyNotFound
	CodePackageNotFound    = apierr.CodePackageNotFound
	CodeGuestNotFound      = apierr.CodeGuestNotFound
	CodeInvalidInviteCode  = apierr.CodeInvalidInviteCode
	CodePartyNotJoinable   = apierr.CodePartyNotJoinable
	CodeAlreadyJoined      = apierr.CodeAlreadyJoined
	CodePartyFull          = apierr.CodePartyFull
	CodeInvalidTransition  = apierr.CodeInvalidTransition
	CodeInvalidMaxGuests   = apierr.CodeInvalidMaxGuests
	CodeUnknownCharacter   = apierr.CodeUnknownCharacter
	CodeUsernameExists     = apierr.CodeUsernameExists
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeStoreContended     = apierr.CodeStoreContended
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return apierr.NewUnauthorizedError()
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return apierr.NewInternalError()
}
