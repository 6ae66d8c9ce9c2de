package handlers

import (
	"net/http"
	"sort"

	"voting-registry/internal/api/interfaces"
	"voting-registry/internal/api/models"
	"voting-registry/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// CreateElection creates a Draft election
func CreateElection(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}

		var req models.CreateElectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		election, err := services.Ledger().CreateElection(addr, ledger.CreateElectionParams{
			Title:            req.Title,
			Description:      req.Description,
			StartTime:        req.StartTime,
			EndTime:          req.EndTime,
			RegistrationMode: req.Mode(),
		})
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Election created", models.NewElectionResponse(election))
	}
}

// GetElection returns election details
func GetElection(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		election, err := services.Ledger().Election(id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewElectionResponse(election))
	}
}

// StartElection moves a Draft election to Active
func StartElection(services interfaces.Services) gin.HandlerFunc {
	return transitionHandler("Election started", func(svc *ledger.Service, addr common.Address, id uint64) (*ledger.Election, error) {
		return svc.StartElection(addr, id)
	}, services)
}

// EndElection moves an Active election to Ended
func EndElection(services interfaces.Services) gin.HandlerFunc {
	return transitionHandler("Election ended", func(svc *ledger.Service, addr common.Address, id uint64) (*ledger.Election, error) {
		return svc.EndElection(addr, id)
	}, services)
}

// CancelElection moves an election to Cancelled
func CancelElection(services interfaces.Services) gin.HandlerFunc {
	return transitionHandler("Election cancelled", func(svc *ledger.Service, addr common.Address, id uint64) (*ledger.Election, error) {
		return svc.CancelElection(addr, id)
	}, services)
}

// FinalizeElection moves an Ended election to Finalized
func FinalizeElection(services interfaces.Services) gin.HandlerFunc {
	return transitionHandler("Election finalized", func(svc *ledger.Service, addr common.Address, id uint64) (*ledger.Election, error) {
		return svc.FinalizeElection(addr, id)
	}, services)
}

func transitionHandler(message string, apply func(*ledger.Service, common.Address, uint64) (*ledger.Election, error), services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		election, err := apply(services.Ledger(), addr, id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, message, models.NewElectionResponse(election))
	}
}

// GetElectionResults returns the per-candidate tally ranked by vote count
func GetElectionResults(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		election, err := services.Ledger().Election(id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}
		roster, err := services.Ledger().Candidates(id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		results := make([]models.CandidateResult, 0, len(roster))
		for _, candidate := range roster {
			result := models.CandidateResult{
				CandidateID: candidate.CandidateID,
				Name:        candidate.Name,
				VoteCount:   candidate.VoteCount,
			}
			if election.TotalVotes > 0 {
				result.Percentage = float64(candidate.VoteCount) / float64(election.TotalVotes) * 100
			}
			results = append(results, result)
		}
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].VoteCount > results[j].VoteCount
		})
		for i := range results {
			results[i].Rank = i + 1
		}

		respondOK(c, http.StatusOK, "", &models.ResultsResponse{
			ElectionID: id,
			Status:     election.Status.String(),
			TotalVotes: election.TotalVotes,
			Results:    results,
		})
	}
}

// AddCandidate appends a candidate to a Draft election
func AddCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		var req models.AddCandidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err.Error())
			return
		}

		candidate, err := services.Ledger().AddCandidate(addr, id, req.Name, req.Description, req.ImageURL)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusCreated, "Candidate added", models.NewCandidateResponse(id, candidate))
	}
}

// ListCandidates returns the election roster
func ListCandidates(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}

		roster, err := services.Ledger().Candidates(id)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		out := make([]*models.CandidateResponse, 0, len(roster))
		for _, candidate := range roster {
			out = append(out, models.NewCandidateResponse(id, candidate))
		}

		respondOK(c, http.StatusOK, "", out)
	}
}

// GetCandidate returns a single candidate
func GetCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := electionIDParam(c)
		if !ok {
			return
		}
		candidateID, ok := candidateIDParam(c)
		if !ok {
			return
		}

		candidate, err := services.Ledger().Candidate(id, candidateID)
		if err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "", models.NewCandidateResponse(id, candidate))
	}
}

// RemoveCandidate deletes a candidate from a Draft election
func RemoveCandidate(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		addr, ok := caller(c)
		if !ok {
			return
		}
		id, ok := electionIDParam(c)
		if !ok {
			return
		}
		candidateID, ok := candidateIDParam(c)
		if !ok {
			return
		}

		if err := services.Ledger().RemoveCandidate(addr, id, candidateID); err != nil {
			respondLedgerError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Candidate removed", nil)
	}
}
