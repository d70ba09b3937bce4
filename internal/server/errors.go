// Package server provides the HTTP API for outreach generation sessions.
package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/outreach-forge/internal/fetch"
	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/outreach"
)

var (
	// ErrSessionNotFound indicates the token's session no longer exists.
	ErrSessionNotFound = errors.New("session not found or expired")
	// ErrNoResult indicates the session has no succeeded generation.
	ErrNoResult = errors.New("no generation result available")
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		genValidation *outreach.ValidationError
		fetchErr      *fetch.Error
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &genValidation),
		errors.Is(err, ingestion.ErrAmbiguousSource), errors.Is(err, ingestion.ErrNoSource):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, outreach.ErrAlreadyGenerating):
		return http.StatusConflict
	case errors.Is(err, outreach.ErrClosed):
		return http.StatusGone
	case errors.Is(err, fetch.ErrBlockedAddress):
		return http.StatusBadRequest
	case errors.Is(err, ingestion.ErrNoContent):
		return http.StatusUnprocessableEntity
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorCode is the machine-readable "code" of an error response.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "already_generating"
	case http.StatusGone:
		return "session_closed"
	case http.StatusUnprocessableEntity:
		return "no_content"
	case http.StatusBadGateway:
		return "fetch_failed"
	default:
		return "internal_error"
	}
}
