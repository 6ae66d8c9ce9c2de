package models

import "voting-registry/internal/ledger"

// TokenRequest represents a development token issuance request
type TokenRequest struct {
	Address string `json:"address" binding:"required" example:"0x1234...abcd"`
}

// AddAdminRequest represents admin registration request
type AddAdminRequest struct {
	Authority   string             `json:"authority" binding:"required" example:"0x1234...abcd"`
	Name        string             `json:"name" binding:"required" example:"Regional Admin"`
	Permissions ledger.Permissions `json:"permissions"`
}

// UpdatePermissionsRequest represents admin permission update request
type UpdatePermissionsRequest struct {
	Permissions ledger.Permissions `json:"permissions" binding:"required"`
}

// CreateElectionRequest represents election creation request
type CreateElectionRequest struct {
	Title            string `json:"title" binding:"required" example:"Board Election 2026"`
	Description      string `json:"description" example:"Annual board member election"`
	StartTime        int64  `json:"start_time" binding:"required" example:"1640995200"`
	EndTime          int64  `json:"end_time" binding:"required" example:"1641081600"`
	RegistrationMode string `json:"registration_mode" binding:"required,oneof=open whitelist" example:"whitelist"`
}

// Mode converts the wire registration mode to its record form
func (r *CreateElectionRequest) Mode() ledger.RegistrationMode {
	if r.RegistrationMode == "whitelist" {
		return ledger.RegistrationModeWhitelist
	}
	return ledger.RegistrationModeOpen
}

// AddCandidateRequest represents candidate creation request
type AddCandidateRequest struct {
	Name        string `json:"name" binding:"required" example:"John Doe"`
	Description string `json:"description" example:"Independent candidate"`
	ImageURL    string `json:"image_url" example:"https://example.com/image.jpg"`
}

// VoterAddressRequest carries the target voter for whitelist operations
type VoterAddressRequest struct {
	Voter string `json:"voter" binding:"required" example:"0x1234...abcd"`
}

// CastVoteRequest represents a vote submission request
type CastVoteRequest struct {
	CandidateID uint32 `json:"candidate_id" example:"0"`
}
