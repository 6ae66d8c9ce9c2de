package ledger

import "errors"

// Authorization errors
var (
	ErrUnauthorized            = errors.New("caller is not authorized")
	ErrAdminNotActive          = errors.New("admin account is not active")
	ErrInsufficientPermissions = errors.New("admin lacks the required permission")
)

// State guard errors
var (
	ErrSystemPaused               = errors.New("system is paused")
	ErrElectionAlreadyActive      = errors.New("election is not in draft")
	ErrElectionNotActive          = errors.New("election is not active")
	ErrElectionFinalized          = errors.New("election is already finalized")
	ErrCannotModifyActiveElection = errors.New("election roster can only change in draft")
	ErrInvalidInput               = errors.New("operation is not valid in the current state")
)

// Capacity errors
var (
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrImageURLTooLong    = errors.New("image URL exceeds maximum length")
	ErrInvalidTimeRange   = errors.New("end time must be after start time")
)

// Duplicate / lookup errors
var (
	ErrAlreadyVoted       = errors.New("voter has already voted in this election")
	ErrAdminAlreadyExists = errors.New("admin already registered for this authority")
	ErrAlreadyRegistered  = errors.New("voter registration already exists")
	ErrRegistryExists     = errors.New("admin registry already initialized")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrElectionNotFound   = errors.New("election not found")
	ErrCandidateNotFound  = errors.New("candidate not found")
	ErrVoterNotRegistered = errors.New("voter is not registered for this election")
	ErrVoteNotFound       = errors.New("no vote recorded for this voter")
	ErrInvalidCandidate   = errors.New("candidate does not belong to this election")
	ErrRegistryNotFound   = errors.New("admin registry not initialized")
)
