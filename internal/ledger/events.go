package ledger

// Event types emitted by the service.
const (
	EventRegistryInitialized = "registry_initialized"
	EventSystemPaused        = "system_paused"
	EventSystemUnpaused      = "system_unpaused"
	EventAdminAdded          = "admin_added"
	EventAdminUpdated        = "admin_updated"
	EventAdminDeactivated    = "admin_deactivated"
	EventElectionCreated     = "election_created"
	EventElectionStarted     = "election_started"
	EventElectionEnded       = "election_ended"
	EventElectionCancelled   = "election_cancelled"
	EventElectionFinalized   = "election_finalized"
	EventCandidateAdded      = "candidate_added"
	EventCandidateRemoved    = "candidate_removed"
	EventVoterRequested      = "voter_registration_requested"
	EventVoterAdded          = "voter_added"
	EventVoterApproved       = "voter_approved"
	EventVoterRejected       = "voter_rejected"
	EventVoterRevoked        = "voter_revoked"
	EventVoteCast            = "vote_cast"
)

// Event describes a completed state change, delivered to subscribers such as
// the websocket feed.
type Event struct {
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	Timestamp int64                  `json:"timestamp"`
}
