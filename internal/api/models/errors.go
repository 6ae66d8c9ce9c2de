package models

import (
	"errors"
	"net/http"

	"voting-registry/internal/ledger"
)

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeForbidden      = "FORBIDDEN"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeConflict       = "CONFLICT"
	ErrCodeInternalError  = "INTERNAL_ERROR"
	ErrCodeSystemPaused   = "SYSTEM_PAUSED"

	// Admin errors
	ErrCodeAdminNotActive          = "ADMIN_NOT_ACTIVE"
	ErrCodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	ErrCodeAdminExists             = "ADMIN_EXISTS"
	ErrCodeAdminNotFound           = "ADMIN_NOT_FOUND"
	ErrCodeRegistryExists          = "REGISTRY_EXISTS"
	ErrCodeRegistryNotFound        = "REGISTRY_NOT_FOUND"

	// Election errors
	ErrCodeElectionNotFound      = "ELECTION_NOT_FOUND"
	ErrCodeElectionActive        = "ELECTION_ALREADY_ACTIVE"
	ErrCodeElectionNotActive     = "ELECTION_NOT_ACTIVE"
	ErrCodeElectionFinalized     = "ELECTION_FINALIZED"
	ErrCodeElectionNotModifiable = "CANNOT_MODIFY_ACTIVE_ELECTION"
	ErrCodeInvalidTimeRange      = "INVALID_TIME_RANGE"
	ErrCodeCandidateNotFound     = "CANDIDATE_NOT_FOUND"
	ErrCodeInvalidCandidate      = "INVALID_CANDIDATE"

	// Voting errors
	ErrCodeVoterNotRegistered = "VOTER_NOT_REGISTERED"
	ErrCodeAlreadyVoted       = "ALREADY_VOTED"
	ErrCodeAlreadyRegistered  = "ALREADY_REGISTERED"
	ErrCodeVoteNotFound       = "VOTE_NOT_FOUND"

	// Validation errors
	ErrCodeTitleTooLong       = "TITLE_TOO_LONG"
	ErrCodeNameTooLong        = "NAME_TOO_LONG"
	ErrCodeDescriptionTooLong = "DESCRIPTION_TOO_LONG"
	ErrCodeImageURLTooLong    = "IMAGE_URL_TOO_LONG"

	// Authentication errors
	ErrCodeInvalidToken = "INVALID_TOKEN"
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

var ledgerErrorMap = map[error]*APIError{
	ledger.ErrUnauthorized:               {Code: ErrCodeUnauthorized, StatusCode: http.StatusUnauthorized},
	ledger.ErrAdminNotActive:             {Code: ErrCodeAdminNotActive, StatusCode: http.StatusForbidden},
	ledger.ErrInsufficientPermissions:    {Code: ErrCodeInsufficientPermissions, StatusCode: http.StatusForbidden},
	ledger.ErrSystemPaused:               {Code: ErrCodeSystemPaused, StatusCode: http.StatusServiceUnavailable},
	ledger.ErrInvalidInput:               {Code: ErrCodeInvalidRequest, StatusCode: http.StatusBadRequest},
	ledger.ErrTitleTooLong:               {Code: ErrCodeTitleTooLong, StatusCode: http.StatusBadRequest},
	ledger.ErrNameTooLong:                {Code: ErrCodeNameTooLong, StatusCode: http.StatusBadRequest},
	ledger.ErrDescriptionTooLong:         {Code: ErrCodeDescriptionTooLong, StatusCode: http.StatusBadRequest},
	ledger.ErrImageURLTooLong:            {Code: ErrCodeImageURLTooLong, StatusCode: http.StatusBadRequest},
	ledger.ErrInvalidTimeRange:           {Code: ErrCodeInvalidTimeRange, StatusCode: http.StatusBadRequest},
	ledger.ErrInvalidCandidate:           {Code: ErrCodeInvalidCandidate, StatusCode: http.StatusBadRequest},
	ledger.ErrRegistryExists:             {Code: ErrCodeRegistryExists, StatusCode: http.StatusConflict},
	ledger.ErrAdminAlreadyExists:         {Code: ErrCodeAdminExists, StatusCode: http.StatusConflict},
	ledger.ErrAlreadyRegistered:          {Code: ErrCodeAlreadyRegistered, StatusCode: http.StatusConflict},
	ledger.ErrAlreadyVoted:               {Code: ErrCodeAlreadyVoted, StatusCode: http.StatusConflict},
	ledger.ErrElectionAlreadyActive:      {Code: ErrCodeElectionActive, StatusCode: http.StatusConflict},
	ledger.ErrElectionNotActive:          {Code: ErrCodeElectionNotActive, StatusCode: http.StatusConflict},
	ledger.ErrElectionFinalized:          {Code: ErrCodeElectionFinalized, StatusCode: http.StatusConflict},
	ledger.ErrCannotModifyActiveElection: {Code: ErrCodeElectionNotModifiable, StatusCode: http.StatusConflict},
	ledger.ErrRegistryNotFound:           {Code: ErrCodeRegistryNotFound, StatusCode: http.StatusNotFound},
	ledger.ErrAdminNotFound:              {Code: ErrCodeAdminNotFound, StatusCode: http.StatusNotFound},
	ledger.ErrElectionNotFound:           {Code: ErrCodeElectionNotFound, StatusCode: http.StatusNotFound},
	ledger.ErrCandidateNotFound:          {Code: ErrCodeCandidateNotFound, StatusCode: http.StatusNotFound},
	ledger.ErrVoteNotFound:               {Code: ErrCodeVoteNotFound, StatusCode: http.StatusNotFound},
	ledger.ErrVoterNotRegistered:         {Code: ErrCodeVoterNotRegistered, StatusCode: http.StatusForbidden},
}

// FromLedgerError maps a registry error to its API error shape
func FromLedgerError(err error) *APIError {
	for sentinel, apiErr := range ledgerErrorMap {
		if errors.Is(err, sentinel) {
			return &APIError{
				Code:       apiErr.Code,
				Message:    sentinel.Error(),
				StatusCode: apiErr.StatusCode,
			}
		}
	}
	return &APIError{
		Code:       ErrCodeInternalError,
		Message:    "internal server error",
		Details:    err.Error(),
		StatusCode: http.StatusInternalServerError,
	}
}
