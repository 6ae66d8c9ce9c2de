package ledger

import (
	"errors"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"voting-registry/internal/store"
)

// CastVote records a vote for a candidate in an Active election. The create
// of the vote record at its derived address is the sole double-vote check:
// if the address is occupied the vote is rejected and no counter moves.
func (s *Service) CastVote(voter common.Address, electionID uint64, candidateID uint32) (*VoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != StatusActive {
		return nil, ErrElectionNotActive
	}

	electionAddr := ElectionAddress(electionID)
	candidate, err := s.loadCandidate(electionAddr, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Election != electionAddr {
		return nil, ErrInvalidCandidate
	}

	if election.RegistrationMode == RegistrationModeWhitelist {
		registration, err := s.loadRegistration(electionAddr, voter)
		if err != nil {
			return nil, err
		}
		if registration.Status != RegistrationApproved {
			return nil, ErrVoterNotRegistered
		}
	}

	record := &VoteRecord{
		Election:  electionAddr,
		Voter:     voter,
		Candidate: CandidateAddress(electionAddr, candidateID),
		VotedAt:   s.clock.Now(),
	}
	if err := s.store.Create(VoteRecordAddress(electionAddr, voter), record.Encode()); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAlreadyVoted
		}
		return nil, err
	}

	candidate.VoteCount = saturatingAdd(candidate.VoteCount, 1)
	if err := s.saveCandidate(candidate); err != nil {
		return nil, err
	}
	election.TotalVotes = saturatingAdd(election.TotalVotes, 1)
	if err := s.saveElection(election); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidateID,
		"voter":        voter.Hex(),
		"total_votes":  election.TotalVotes,
	}).Info("Vote cast")
	s.emit(EventVoteCast, map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidateID,
		"total_votes":  election.TotalVotes,
	})
	return record, nil
}

// HasVoted reports whether a vote record exists for the voter.
func (s *Service) HasVoted(electionID uint64, voter common.Address) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.store.Read(VoteRecordAddress(ElectionAddress(electionID), voter))
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// saturatingAdd caps at the maximum instead of wrapping.
func saturatingAdd(v, delta uint64) uint64 {
	if v > math.MaxUint64-delta {
		return math.MaxUint64
	}
	return v + delta
}
