package ledger

import (
	"github.com/ethereum/go-ethereum/common"
)

// CreateElectionParams carries the caller-supplied election fields.
type CreateElectionParams struct {
	Title            string
	Description      string
	StartTime        int64
	EndTime          int64
	RegistrationMode RegistrationMode
}

// CreateElection creates an election in Draft. The election takes the
// registry's current counter as its immutable ID and the counter advances.
func (s *Service) CreateElection(caller common.Address, p CreateElectionParams) (*Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	if _, err := s.requireCapability(caller, CapManageElections); err != nil {
		return nil, err
	}
	if len(p.Title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(p.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if p.EndTime <= p.StartTime {
		return nil, ErrInvalidTimeRange
	}

	election := &Election{
		ElectionID:       reg.ElectionCount,
		Authority:        caller,
		Title:            p.Title,
		Description:      p.Description,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		Status:           StatusDraft,
		RegistrationMode: p.RegistrationMode,
	}
	data, err := election.Encode()
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ElectionAddress(election.ElectionID), data); err != nil {
		return nil, err
	}

	reg.ElectionCount++
	if err := s.saveRegistry(reg); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": election.ElectionID,
		"title":       election.Title,
		"mode":        election.RegistrationMode.String(),
	}).Info("Election created")
	s.emit(EventElectionCreated, map[string]interface{}{
		"election_id": election.ElectionID,
		"title":       election.Title,
	})
	return election, nil
}

// StartElection moves a Draft election with at least one candidate to Active.
func (s *Service) StartElection(caller common.Address, electionID uint64) (*Election, error) {
	return s.transition(caller, electionID, EventElectionStarted, func(e *Election) error {
		if e.Status != StatusDraft {
			return ErrElectionAlreadyActive
		}
		if e.CandidateCount == 0 {
			return ErrInvalidInput
		}
		e.Status = StatusActive
		return nil
	})
}

// EndElection moves an Active election to Ended.
func (s *Service) EndElection(caller common.Address, electionID uint64) (*Election, error) {
	return s.transition(caller, electionID, EventElectionEnded, func(e *Election) error {
		if e.Status != StatusActive {
			return ErrElectionNotActive
		}
		e.Status = StatusEnded
		return nil
	})
}

// CancelElection moves a Draft, Active or Ended election to Cancelled.
// Finalized and Cancelled are terminal.
func (s *Service) CancelElection(caller common.Address, electionID uint64) (*Election, error) {
	return s.transition(caller, electionID, EventElectionCancelled, func(e *Election) error {
		if e.Status == StatusFinalized {
			return ErrElectionFinalized
		}
		if e.Status == StatusCancelled {
			return ErrInvalidInput
		}
		e.Status = StatusCancelled
		return nil
	})
}

// FinalizeElection moves an Ended election to Finalized. Requires the
// finalize-results capability rather than manage-elections.
func (s *Service) FinalizeElection(caller common.Address, electionID uint64) (*Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	if _, err := s.requireCapability(caller, CapFinalizeResults); err != nil {
		return nil, err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}
	if election.Status != StatusEnded {
		return nil, ErrInvalidInput
	}

	election.Status = StatusFinalized
	if err := s.saveElection(election); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": election.ElectionID,
		"total_votes": election.TotalVotes,
	}).Info("Election finalized")
	s.emit(EventElectionFinalized, map[string]interface{}{
		"election_id": election.ElectionID,
		"total_votes": election.TotalVotes,
	})
	return election, nil
}

// transition runs a manage-elections lifecycle change under the standard
// guards: registry loaded, system not paused, caller capability, then the
// per-transition status check.
func (s *Service) transition(caller common.Address, electionID uint64, eventType string, apply func(*Election) error) (*Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	if _, err := s.requireCapability(caller, CapManageElections); err != nil {
		return nil, err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}
	if err := apply(election); err != nil {
		return nil, err
	}
	if err := s.saveElection(election); err != nil {
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": election.ElectionID,
		"status":      election.Status.String(),
	}).Info("Election status changed")
	s.emit(eventType, map[string]interface{}{
		"election_id": election.ElectionID,
		"status":      election.Status.String(),
	})
	return election, nil
}
