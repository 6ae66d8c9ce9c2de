package ledger

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"voting-registry/internal/store"
)

// RequestVoterRegistration files a Pending registration for the calling
// voter. Only meaningful for whitelist elections; one request per voter per
// election, enforced by the derived address.
func (s *Service) RequestVoterRegistration(voter common.Address, electionID uint64) (*VoterRegistration, error) {
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
	if election.RegistrationMode != RegistrationModeWhitelist {
		return nil, ErrInvalidInput
	}

	registration := &VoterRegistration{
		Election:    ElectionAddress(electionID),
		Voter:       voter,
		Status:      RegistrationPending,
		RequestedAt: s.clock.Now(),
	}
	if err := s.store.Create(VoterRegistrationAddress(registration.Election, voter), registration.Encode()); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
	}).Info("Voter registration requested")
	s.emit(EventVoterRequested, map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
	})
	return registration, nil
}

// AddVoterDirectly creates an already-Approved registration, skipping the
// request step. The caller must be the super-admin or an active admin with
// the manage-voters capability.
func (s *Service) AddVoterDirectly(caller common.Address, electionID uint64, voter common.Address) (*VoterRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return nil, err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return nil, err
	}
	if err := s.requireVoterManager(caller); err != nil {
		return nil, err
	}
	election, err := s.loadElection(electionID)
	if err != nil {
		return nil, err
	}
	if election.RegistrationMode != RegistrationModeWhitelist {
		return nil, ErrInvalidInput
	}

	now := s.clock.Now()
	approvedBy := caller
	registration := &VoterRegistration{
		Election:    ElectionAddress(electionID),
		Voter:       voter,
		Status:      RegistrationApproved,
		RequestedAt: now,
		ApprovedAt:  &now,
		ApprovedBy:  &approvedBy,
	}
	if err := s.store.Create(VoterRegistrationAddress(registration.Election, voter), registration.Encode()); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
		"added_by":    caller.Hex(),
	}).Info("Voter added directly")
	s.emit(EventVoterAdded, map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
	})
	return registration, nil
}

// ApproveVoterRegistration moves a Pending registration to Approved.
func (s *Service) ApproveVoterRegistration(caller common.Address, electionID uint64, voter common.Address) error {
	return s.reviewRegistration(caller, electionID, voter, EventVoterApproved, func(v *VoterRegistration, now int64) error {
		if v.Status != RegistrationPending {
			return ErrInvalidInput
		}
		v.Status = RegistrationApproved
		v.ApprovedAt = &now
		v.ApprovedBy = &caller
		return nil
	})
}

// RejectVoterRegistration moves a Pending registration to Rejected.
func (s *Service) RejectVoterRegistration(caller common.Address, electionID uint64, voter common.Address) error {
	return s.reviewRegistration(caller, electionID, voter, EventVoterRejected, func(v *VoterRegistration, now int64) error {
		if v.Status != RegistrationPending {
			return ErrInvalidInput
		}
		v.Status = RegistrationRejected
		return nil
	})
}

// RevokeVoterRegistration moves an Approved registration to Revoked.
func (s *Service) RevokeVoterRegistration(caller common.Address, electionID uint64, voter common.Address) error {
	return s.reviewRegistration(caller, electionID, voter, EventVoterRevoked, func(v *VoterRegistration, now int64) error {
		if v.Status != RegistrationApproved {
			return ErrInvalidInput
		}
		v.Status = RegistrationRevoked
		return nil
	})
}

func (s *Service) reviewRegistration(caller common.Address, electionID uint64, voter common.Address, eventType string, apply func(*VoterRegistration, int64) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.loadRegistry()
	if err != nil {
		return err
	}
	if err := s.requireNotPaused(reg); err != nil {
		return err
	}
	if _, err := s.requireCapability(caller, CapManageVoters); err != nil {
		return err
	}
	registration, err := s.loadRegistration(ElectionAddress(electionID), voter)
	if err != nil {
		return err
	}
	if err := apply(registration, s.clock.Now()); err != nil {
		return err
	}
	if err := s.saveRegistration(registration); err != nil {
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
		"status":      registration.Status.String(),
		"reviewed_by": caller.Hex(),
	}).Info("Voter registration reviewed")
	s.emit(eventType, map[string]interface{}{
		"election_id": electionID,
		"voter":       voter.Hex(),
		"status":      registration.Status.String(),
	})
	return nil
}
