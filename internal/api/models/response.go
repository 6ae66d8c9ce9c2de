package models

import (
	"voting-registry/internal/ledger"
)

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"req_123456"`
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid request parameters"`
	Details string `json:"details,omitempty"`
}

// RegistryResponse represents the admin registry singleton
type RegistryResponse struct {
	SuperAdmin    string `json:"super_admin" example:"0x1234...abcd"`
	ElectionCount uint64 `json:"election_count" example:"3"`
	AdminCount    uint32 `json:"admin_count" example:"2"`
	Paused        bool   `json:"paused" example:"false"`
}

// AdminResponse represents a delegated administrator
type AdminResponse struct {
	Authority   string             `json:"authority" example:"0x1234...abcd"`
	Name        string             `json:"name" example:"Regional Admin"`
	Permissions ledger.Permissions `json:"permissions"`
	AddedBy     string             `json:"added_by" example:"0x5678...efgh"`
	AddedAt     int64              `json:"added_at" example:"1640995200"`
	IsActive    bool               `json:"is_active" example:"true"`
}

// ElectionResponse represents election information
type ElectionResponse struct {
	ElectionID       uint64 `json:"election_id" example:"1"`
	Authority        string `json:"authority" example:"0x1234...abcd"`
	Title            string `json:"title" example:"Board Election 2026"`
	Description      string `json:"description,omitempty"`
	StartTime        int64  `json:"start_time" example:"1640995200"`
	EndTime          int64  `json:"end_time" example:"1641081600"`
	Status           string `json:"status" example:"active"`
	RegistrationMode string `json:"registration_mode" example:"whitelist"`
	CandidateCount   uint32 `json:"candidate_count" example:"4"`
	TotalVotes       uint64 `json:"total_votes" example:"12500"`
}

// CandidateResponse represents candidate information
type CandidateResponse struct {
	ElectionID  uint64 `json:"election_id" example:"1"`
	CandidateID uint32 `json:"candidate_id" example:"0"`
	Name        string `json:"name" example:"John Doe"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	VoteCount   uint64 `json:"vote_count" example:"5500"`
	AddedBy     string `json:"added_by" example:"0x1234...abcd"`
	AddedAt     int64  `json:"added_at" example:"1640995200"`
}

// CandidateResult represents tallied results for a candidate
type CandidateResult struct {
	CandidateID uint32  `json:"candidate_id" example:"0"`
	Name        string  `json:"name" example:"John Doe"`
	VoteCount   uint64  `json:"vote_count" example:"5500"`
	Percentage  float64 `json:"percentage" example:"44.0"`
	Rank        int     `json:"rank" example:"1"`
}

// ResultsResponse represents election results
type ResultsResponse struct {
	ElectionID uint64            `json:"election_id" example:"1"`
	Status     string            `json:"status" example:"finalized"`
	TotalVotes uint64            `json:"total_votes" example:"12500"`
	Results    []CandidateResult `json:"results"`
}

// RegistrationResponse represents a voter whitelist entry
type RegistrationResponse struct {
	ElectionID  uint64 `json:"election_id" example:"1"`
	Voter       string `json:"voter" example:"0x1234...abcd"`
	Status      string `json:"status" example:"approved"`
	RequestedAt int64  `json:"requested_at" example:"1640995200"`
	ApprovedAt  *int64 `json:"approved_at,omitempty"`
	ApprovedBy  string `json:"approved_by,omitempty"`
}

// VoteResponse represents vote submission response
type VoteResponse struct {
	ElectionID  uint64 `json:"election_id" example:"1"`
	CandidateID uint32 `json:"candidate_id" example:"0"`
	Voter       string `json:"voter" example:"0x1234...abcd"`
	VotedAt     int64  `json:"voted_at" example:"1640995200"`
}

// VoteRecordResponse represents a stored vote record. The chosen candidate is
// exposed as its derived address, not its ID.
type VoteRecordResponse struct {
	ElectionID uint64 `json:"election_id" example:"1"`
	Voter      string `json:"voter" example:"0x1234...abcd"`
	Candidate  string `json:"candidate" example:"0xabcd...1234"`
	VotedAt    int64  `json:"voted_at" example:"1640995200"`
}

// VoterStatusResponse represents voter status for an election
type VoterStatusResponse struct {
	ElectionID         uint64 `json:"election_id" example:"1"`
	Voter              string `json:"voter" example:"0x1234...abcd"`
	HasVoted           bool   `json:"has_voted" example:"false"`
	RegistrationStatus string `json:"registration_status,omitempty" example:"approved"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp int64                  `json:"timestamp" example:"1640995200"`
	Version   string                 `json:"version" example:"1.0.0"`
	Uptime    int64                  `json:"uptime" example:"86400"`
	Checks    map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents individual health check
type HealthCheck struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewRegistryResponse converts a registry record
func NewRegistryResponse(r *ledger.AdminRegistry) *RegistryResponse {
	return &RegistryResponse{
		SuperAdmin:    r.SuperAdmin.Hex(),
		ElectionCount: r.ElectionCount,
		AdminCount:    r.AdminCount,
		Paused:        r.Paused,
	}
}

// NewAdminResponse converts an admin record
func NewAdminResponse(a *ledger.Admin) *AdminResponse {
	return &AdminResponse{
		Authority:   a.Authority.Hex(),
		Name:        a.Name,
		Permissions: a.Permissions,
		AddedBy:     a.AddedBy.Hex(),
		AddedAt:     a.AddedAt,
		IsActive:    a.IsActive,
	}
}

// NewElectionResponse converts an election record
func NewElectionResponse(e *ledger.Election) *ElectionResponse {
	return &ElectionResponse{
		ElectionID:       e.ElectionID,
		Authority:        e.Authority.Hex(),
		Title:            e.Title,
		Description:      e.Description,
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		Status:           e.Status.String(),
		RegistrationMode: e.RegistrationMode.String(),
		CandidateCount:   e.CandidateCount,
		TotalVotes:       e.TotalVotes,
	}
}

// NewCandidateResponse converts a candidate record
func NewCandidateResponse(electionID uint64, c *ledger.Candidate) *CandidateResponse {
	return &CandidateResponse{
		ElectionID:  electionID,
		CandidateID: c.CandidateID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		VoteCount:   c.VoteCount,
		AddedBy:     c.AddedBy.Hex(),
		AddedAt:     c.AddedAt,
	}
}

// NewRegistrationResponse converts a voter registration record
func NewRegistrationResponse(electionID uint64, v *ledger.VoterRegistration) *RegistrationResponse {
	resp := &RegistrationResponse{
		ElectionID:  electionID,
		Voter:       v.Voter.Hex(),
		Status:      v.Status.String(),
		RequestedAt: v.RequestedAt,
		ApprovedAt:  v.ApprovedAt,
	}
	if v.ApprovedBy != nil {
		resp.ApprovedBy = v.ApprovedBy.Hex()
	}
	return resp
}

// NewVoteResponse converts a vote record
func NewVoteResponse(electionID uint64, candidateID uint32, v *ledger.VoteRecord) *VoteResponse {
	return &VoteResponse{
		ElectionID:  electionID,
		CandidateID: candidateID,
		Voter:       v.Voter.Hex(),
		VotedAt:     v.VotedAt,
	}
}

// NewVoteRecordResponse converts a vote record for the public read surface
func NewVoteRecordResponse(electionID uint64, v *ledger.VoteRecord) *VoteRecordResponse {
	return &VoteRecordResponse{
		ElectionID: electionID,
		Voter:      v.Voter.Hex(),
		Candidate:  v.Candidate.Hex(),
		VotedAt:    v.VotedAt,
	}
}
