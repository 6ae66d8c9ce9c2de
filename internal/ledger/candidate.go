package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"voting-registry/internal/store"
)

// AddCandidate appends a candidate to a Draft election's roster. The
// candidate takes the election's current counter as its ID and the counter
// advances.
func (s *Service) AddCandidate(caller common.Address, electionID uint64, name, description, imageURL string) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	if _, err := s.requireCapability(caller, CapManageCandidates); err != nil {
		return nil, err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != StatusDraft {
		return nil, ErrCannotModifyActiveElection
	}
	if len(name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if len(description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if len(imageURL) > MaxImageURLLength {
		return nil, ErrImageURLTooLong
	}

	candidate := &Candidate{
		Election:    ElectionAddress(electionID),
		CandidateID: election.CandidateCount,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		AddedBy:     caller,
		AddedAt:     s.clock.Now(),
	}
	data, err := candidate.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(CandidateAddress(candidate.Election, candidate.CandidateID), data); err != nil {
		return nil, err
	}

	election.CandidateCount++
	if err := s.saveElection(election); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidate.CandidateID,
		"name":         name,
	}).Info("Candidate added")
	s.emit(EventCandidateAdded, map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidate.CandidateID,
		"name":         name,
	})
	return candidate, nil
}

// Candidate IDs are assigned from the election counter, so removals during
// Draft can leave gaps below the highest assigned ID. The scan tolerates a
// bounded number of gaps.
const maxCandidateGapScan = 1024

// Candidates returns the live roster for an election, ordered by ID.
func (s *Service) Candidates(electionID uint64) ([]*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}

	electionAddr := ElectionAddress(electionID)
	roster := make([]*Candidate, 0, election.CandidateCount)
	for id := uint32(0); uint32(len(roster)) < election.CandidateCount && id < election.CandidateCount+maxCandidateGapScan; id++ {
		candidate, err := s.loadCandidate(electionAddr, id)
		if errors.Is(err, ErrCandidateNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		roster = append(roster, candidate)
	}
	return roster, nil
}

// RemoveCandidate destroys a candidate record while the election is still in
// Draft. Surviving candidates keep their IDs; only the count drops.
func (s *Service) RemoveCandidate(caller common.Address, electionID uint64, candidateID uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return err
	}
	if _, err := s.requireCapability(caller, CapManageCandidates); err != nil {
		return err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return err
	}
	if election.Status != StatusDraft {
		return ErrCannotModifyActiveElection
	}

	if err := s.store.Destroy(CandidateAddress(ElectionAddress(electionID), candidateID)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCandidateNotFound
		}
		return err
	}

	if election.CandidateCount > 0 {
		election.CandidateCount--
	}
	if err := s.saveElection(election); err != nil {
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidateID,
	}).Info("Candidate removed")
	s.emit(EventCandidateRemoved, map[string]interface{}{
		"election_id":  electionID,
		"candidate_id": candidateID,
	})
	return nil
}
