// Package ledger implements the role-gated election registry: a permission
// model rooted at a single super-admin, a five-phase election lifecycle, a
// voter whitelisting workflow and a vote ledger with at-most-once semantics.
// Every record lives at a deterministically derived address in an entity
// store; create-if-absent at that address is what enforces "cannot vote
// twice" and "cannot register the same admin twice" without a separate index.
package ledger

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"voting-registry/internal/store"
	"voting-registry/pkg/logger"
)

// Service executes ledger operations against the entity store. Operations
// run under a single mutex: authorization, phase guards and record writes
// form one atomic unit, so a failed operation leaves no partial state.
type Service struct {
	mu         sync.Mutex
	store      store.EntityStore
	clock      Clock
	log        *logger.Logger
	superAdmin common.Address
	onEvent    func(Event)
}

// NewService creates a ledger service. superAdmin is fixed for the lifetime
// of the process.
func NewService(st store.EntityStore, superAdmin common.Address, clock Clock, log *logger.Logger) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	if log == nil {
		log = logger.NewLogger("info", "")
	}
	return &Service{
		store:      st,
		clock:      clock,
		log:        log.WithComponent("ledger"),
		superAdmin: superAdmin,
	}
}

// SuperAdmin returns the configured super-admin identity.
func (s *Service) SuperAdmin() common.Address {
	return s.superAdmin
}

// SetEventCallback registers a subscriber for completed state changes. The
// callback runs inside the operation's critical section; keep it cheap.
func (s *Service) SetEventCallback(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

func (s *Service) emit(eventType string, data map[string]interface{}) {
	if s.onEvent == nil {
		return
	}
	s.onEvent(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: s.clock.Now(),
	})
}

// --- record access helpers ---

func (s *Service) loadRegistry() (*AdminRegistry, error) {
	data, err := s.store.Read(RegistryAddress())
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRegistryNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeAdminRegistry(data)
}

func (s *Service) saveRegistry(reg *AdminRegistry) error {
	data := reg.Encode()
	return s.store.Update(RegistryAddress(), func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (s *Service) loadAdmin(authority common.Address) (*Admin, error) {
	data, err := s.store.Read(AdminAddress(authority))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeAdmin(data)
}

func (s *Service) saveAdmin(a *Admin) error {
	data, err := a.Encode()
	if err != nil {
		return err
	}
	return s.store.Update(AdminAddress(a.Authority), func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (s *Service) loadElection(electionID uint64) (*Election, error) {
	data, err := s.store.Read(ElectionAddress(electionID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrElectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeElection(data)
}

func (s *Service) saveElection(e *Election) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	return s.store.Update(ElectionAddress(e.ElectionID), func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (s *Service) loadCandidate(election common.Hash, candidateID uint32) (*Candidate, error) {
	data, err := s.store.Read(CandidateAddress(election, candidateID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCandidateNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeCandidate(data)
}

func (s *Service) saveCandidate(c *Candidate) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return s.store.Update(CandidateAddress(c.Election, c.CandidateID), func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (s *Service) loadRegistration(election common.Hash, voter common.Address) (*VoterRegistration, error) {
	data, err := s.store.Read(VoterRegistrationAddress(election, voter))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrVoterNotRegistered
	}
	if err != nil {
		return nil, err
	}
	return DecodeVoterRegistration(data)
}

func (s *Service) saveRegistration(v *VoterRegistration) error {
	data := v.Encode()
	return s.store.Update(VoterRegistrationAddress(v.Election, v.Voter), func([]byte) ([]byte, error) {
		return data, nil
	})
}

// --- read operations ---

// Registry returns the admin registry singleton.
func (s *Service) Registry() (*AdminRegistry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRegistry()
}

// Admin returns the admin record for an authority.
func (s *Service) Admin(authority common.Address) (*Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAdmin(authority)
}

// Election returns an election by its sequential ID.
func (s *Service) Election(electionID uint64) (*Election, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadElection(electionID)
}

// Candidate returns a candidate by election and candidate ID.
func (s *Service) Candidate(electionID uint64, candidateID uint32) (*Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadCandidate(ElectionAddress(electionID), candidateID)
}

// VoterRegistration returns the registration record for a voter.
func (s *Service) VoterRegistration(electionID uint64, voter common.Address) (*VoterRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRegistration(ElectionAddress(electionID), voter)
}

// VoteRecord returns the vote record for a voter, if any.
func (s *Service) VoteRecord(electionID uint64, voter common.Address) (*VoteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := s.store.Read(VoteRecordAddress(ElectionAddress(electionID), voter))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrVoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return DecodeVoteRecord(data)
}
