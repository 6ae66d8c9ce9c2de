package handlers

import (
	"net/http"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/models"
	"voting-registry/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// RequestVoterRegistration files a whitelist request for the caller
func RequestVoterRegistration(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		services.GetLogger().Info("Voter registration request - election: %d, voter: %s, ip: %s",
			id, addr.Hex(), getClientIP(c))

		registration, err := services.Ledger().RequestVoterRegistration(addr, id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Registration requested", models.NewRegistrationResponse(id, registration))
	}
}

// AddVoterDirectly creates an approved whitelist entry in one step
func AddVoterDirectly(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		var req models.VoterAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		if !common.IsHexAddress(req.Voter) {
			respondBadRequest(c, "voter must be a hex address")
			return
		}

		registration, err := services.Ledger().AddVoterDirectly(addr, id, common.HexToAddress(req.Voter))
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Voter added", models.NewRegistrationResponse(id, registration))
	}
}

// ApproveVoterRegistration approves a pending whitelist request
func ApproveVoterRegistration(services interfaces.Services) gin.HandlerFunc {
	return reviewHandler("Registration approved", func(svc *ledger.Service, addr common.Address, id uint64, voter common.Address) error {
		return svc.ApproveVoterRegistration(addr, id, voter)
	}, services)
}

// RejectVoterRegistration rejects a pending whitelist request
func RejectVoterRegistration(services interfaces.Services) gin.HandlerFunc {
	return reviewHandler("Registration rejected", func(svc *ledger.Service, addr common.Address, id uint64, voter common.Address) error {
		return svc.RejectVoterRegistration(addr, id, voter)
	}, services)
}

// RevokeVoterRegistration revokes an approved whitelist entry
func RevokeVoterRegistration(services interfaces.Services) gin.HandlerFunc {
	return reviewHandler("Registration revoked", func(svc *ledger.Service, addr common.Address, id uint64, voter common.Address) error {
		return svc.RevokeVoterRegistration(addr, id, voter)
	}, services)
}

func reviewHandler(message string, apply func(*ledger.Service, common.Address, uint64, common.Address) error, services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}
		voter, ok := addressParam(c, "voter")
		if !ok {
			return
		}

		if err := apply(services.Ledger(), addr, id, voter); err != nil {
			respondLedgerError(c, err)
			return
		}

		registration, err := services.Ledger().VoterRegistration(id, voter)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, message, models.NewRegistrationResponse(id, registration))
	}
}

// GetVoterRegistration returns a whitelist entry
func GetVoterRegistration(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}
		voter, ok := addressParam(c, "voter")
		if !ok {
			return
		}

		registration, err := services.Ledger().VoterRegistration(id, voter)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewRegistrationResponse(id, registration))
	}
}

// CastVote records the caller's vote in an Active election
func CastVote(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		var req models.CastVoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		services.GetLogger().Info("Vote attempt - election: %d, candidate: %d, ip: %s",
			id, req.CandidateID, getClientIP(c))

		record, err := services.Ledger().CastVote(addr, id, req.CandidateID)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Vote cast successfully", models.NewVoteResponse(id, req.CandidateID, record))
	}
}

// GetVoteRecord returns the stored vote record for a voter
func GetVoteRecord(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}
		voter, ok := addressParam(c, "voter")
		if !ok {
			return
		}

		record, err := services.Ledger().VoteRecord(id, voter)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewVoteRecordResponse(id, record))
	}
}

// GetVoterStatus reports whether the caller has voted and, for whitelist
// elections, their registration status
func GetVoterStatus(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		hasVoted, err := services.Ledger().HasVoted(id, addr)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		status := &models.VoterStatusResponse{
			ElectionID: id,
			Voter:      addr.Hex(),
			HasVoted:   hasVoted,
		}
		if registration, err := services.Ledger().VoterRegistration(id, addr); err == nil {
			status.RegistrationStatus = registration.Status.String()
		}

		respondOK(c, http.StatusOK, "", status)
	}
}
