package ledger

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-registry/internal/store"
)

var (
	superAdmin = common.HexToAddress("0x0000000000000000000000000000000000000001")
	adminAddr  = common.HexToAddress("0x0000000000000000000000000000000000000002")
	voterA     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	voterB     = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	stranger   = common.HexToAddress("0x00000000000000000000000000000000000000ff")
)

const testNow = int64(1700000000)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMemoryStore(), superAdmin, FixedClock(testNow), nil)
}

func initializedService(t *testing.T) *Service {
	t.Helper()
	svc := newTestService(t)
	_, err := svc.InitializeRegistry(superAdmin)
	require.NoError(t, err)
	return svc
}

func electionParams(mode RegistrationMode) CreateElectionParams {
	return CreateElectionParams{
		Title:            "Board Election",
		Description:      "Annual board member election",
		StartTime:        testNow,
		EndTime:          testNow + 86400,
		RegistrationMode: mode,
	}
}

// serviceWithElection sets up an admin with full permissions and a Draft
// election with two candidates.
func serviceWithElection(t *testing.T, mode RegistrationMode) (*Service, *Election) {
	t.Helper()
	svc := initializedService(t)
	_, err := svc.AddAdmin(superAdmin, adminAddr, "Ops Admin", FullPermissions())
	require.NoError(t, err)

	election, err := svc.CreateElection(adminAddr, electionParams(mode))
	require.NoError(t, err)
	_, err = svc.AddCandidate(adminAddr, election.ElectionID, "Alice", "", "")
	require.NoError(t, err)
	_, err = svc.AddCandidate(adminAddr, election.ElectionID, "Bob", "", "")
	require.NoError(t, err)
	return svc, election
}

func TestInitializeRegistry(t *testing.T) {
	t.Run("SuperAdminOnly", func(t *testing.T) {
		svc := newTestService(t)
		_, err := svc.InitializeRegistry(stranger)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("CreatesSingleton", func(t *testing.T) {
		svc := newTestService(t)
		reg, err := svc.InitializeRegistry(superAdmin)
		require.NoError(t, err)
		assert.Equal(t, superAdmin, reg.SuperAdmin)
		assert.Zero(t, reg.ElectionCount)
		assert.Zero(t, reg.AdminCount)
		assert.False(t, reg.Paused)

		_, err = svc.InitializeRegistry(superAdmin)
		assert.ErrorIs(t, err, ErrRegistryExists)
	})

	t.Run("DestroyAndReinitialize", func(t *testing.T) {
		svc := initializedService(t)
		assert.ErrorIs(t, svc.DestroyRegistry(stranger), ErrUnauthorized)

		require.NoError(t, svc.DestroyRegistry(superAdmin))
		_, err := svc.Registry()
		assert.ErrorIs(t, err, ErrRegistryNotFound)
		assert.ErrorIs(t, svc.DestroyRegistry(superAdmin), ErrRegistryNotFound)

		_, err = svc.InitializeRegistry(superAdmin)
		assert.NoError(t, err)
	})
}

func TestAdminManagement(t *testing.T) {
	t.Run("AddAdmin", func(t *testing.T) {
		svc := initializedService(t)

		_, err := svc.AddAdmin(stranger, adminAddr, "Ops", FullPermissions())
		assert.ErrorIs(t, err, ErrUnauthorized)

		_, err = svc.AddAdmin(superAdmin, adminAddr, "   ", FullPermissions())
		assert.ErrorIs(t, err, ErrInvalidInput)

		admin, err := svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
		require.NoError(t, err)
		assert.True(t, admin.IsActive)
		assert.Equal(t, superAdmin, admin.AddedBy)
		assert.Equal(t, testNow, admin.AddedAt)

		_, err = svc.AddAdmin(superAdmin, adminAddr, "Ops Again", FullPermissions())
		assert.ErrorIs(t, err, ErrAdminAlreadyExists)

		reg, err := svc.Registry()
		require.NoError(t, err)
		assert.Equal(t, uint32(1), reg.AdminCount)
	})

	t.Run("UpdatePermissions", func(t *testing.T) {
		svc := initializedService(t)
		_, err := svc.AddAdmin(superAdmin, adminAddr, "Ops", NoPermissions())
		require.NoError(t, err)

		_, err = svc.UpdateAdminPermissions(adminAddr, adminAddr, FullPermissions())
		assert.ErrorIs(t, err, ErrUnauthorized)

		updated, err := svc.UpdateAdminPermissions(superAdmin, adminAddr, Permissions{ManageVoters: true})
		require.NoError(t, err)
		assert.True(t, updated.Permissions.Has(CapManageVoters))
		assert.False(t, updated.Permissions.Has(CapManageElections))

		_, err = svc.UpdateAdminPermissions(superAdmin, stranger, FullPermissions())
		assert.ErrorIs(t, err, ErrAdminNotFound)
	})

	t.Run("Deactivate", func(t *testing.T) {
		svc := initializedService(t)
		_, err := svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
		require.NoError(t, err)

		require.NoError(t, svc.DeactivateAdmin(superAdmin, adminAddr))
		assert.ErrorIs(t, svc.DeactivateAdmin(superAdmin, adminAddr), ErrAdminNotActive)

		// The record survives deactivation so the authority stays burned.
		admin, err := svc.Admin(adminAddr)
		require.NoError(t, err)
		assert.False(t, admin.IsActive)
		_, err = svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
		assert.ErrorIs(t, err, ErrAdminAlreadyExists)

		reg, err := svc.Registry()
		require.NoError(t, err)
		assert.Zero(t, reg.AdminCount)

		// Deactivated admins lose all capabilities.
		_, err = svc.CreateElection(adminAddr, electionParams(RegistrationModeOpen))
		assert.ErrorIs(t, err, ErrAdminNotActive)
	})
}

func TestCreateElection(t *testing.T) {
	svc := initializedService(t)
	_, err := svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
	require.NoError(t, err)

	t.Run("UnknownCallerRejected", func(t *testing.T) {
		_, err := svc.CreateElection(stranger, electionParams(RegistrationModeOpen))
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("CapabilityRequired", func(t *testing.T) {
		limited := common.HexToAddress("0x0000000000000000000000000000000000000003")
		_, err := svc.AddAdmin(superAdmin, limited, "Reviewer", Permissions{ManageVoters: true})
		require.NoError(t, err)

		_, err = svc.CreateElection(limited, electionParams(RegistrationModeOpen))
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})

	t.Run("Validation", func(t *testing.T) {
		p := electionParams(RegistrationModeOpen)
		p.EndTime = p.StartTime
		_, err := svc.CreateElection(adminAddr, p)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("SequentialIDs", func(t *testing.T) {
		first, err := svc.CreateElection(adminAddr, electionParams(RegistrationModeOpen))
		require.NoError(t, err)
		second, err := svc.CreateElection(adminAddr, electionParams(RegistrationModeOpen))
		require.NoError(t, err)
		assert.Equal(t, first.ElectionID+1, second.ElectionID)
		assert.Equal(t, StatusDraft, first.Status)
	})
}

func TestElectionLifecycle(t *testing.T) {
	t.Run("HappyPath", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		started, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, started.Status)

		ended, err := svc.EndElection(adminAddr, id)
		require.NoError(t, err)
		assert.Equal(t, StatusEnded, ended.Status)

		finalized, err := svc.FinalizeElection(adminAddr, id)
		require.NoError(t, err)
		assert.Equal(t, StatusFinalized, finalized.Status)
	})

	t.Run("StartRequiresCandidates", func(t *testing.T) {
		svc := initializedService(t)
		_, err := svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
		require.NoError(t, err)
		election, err := svc.CreateElection(adminAddr, electionParams(RegistrationModeOpen))
		require.NoError(t, err)

		_, err = svc.StartElection(adminAddr, election.ElectionID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("IllegalTransitions", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		_, err := svc.EndElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrElectionNotActive)
		_, err = svc.FinalizeElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.StartElection(adminAddr, id)
		require.NoError(t, err)
		_, err = svc.StartElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrElectionAlreadyActive)
		_, err = svc.FinalizeElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.EndElection(adminAddr, id)
		require.NoError(t, err)
		_, err = svc.FinalizeElection(adminAddr, id)
		require.NoError(t, err)

		_, err = svc.CancelElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrElectionFinalized)
		_, err = svc.EndElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrElectionNotActive)
	})

	t.Run("CancelIsTerminal", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		cancelled, err := svc.CancelElection(adminAddr, id)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, cancelled.Status)

		_, err = svc.CancelElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = svc.StartElection(adminAddr, id)
		assert.ErrorIs(t, err, ErrElectionAlreadyActive)
	})

	t.Run("FinalizeRequiresCapability", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)
		_, err = svc.EndElection(adminAddr, id)
		require.NoError(t, err)

		manager := common.HexToAddress("0x0000000000000000000000000000000000000004")
		_, err = svc.AddAdmin(superAdmin, manager, "Manager", Permissions{ManageElections: true})
		require.NoError(t, err)

		_, err = svc.FinalizeElection(manager, id)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
		_, err = svc.FinalizeElection(adminAddr, id)
		assert.NoError(t, err)
	})
}

func TestCandidateRoster(t *testing.T) {
	t.Run("SequentialIDsAndCount", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		third, err := svc.AddCandidate(adminAddr, id, "Carol", "desc", "")
		require.NoError(t, err)
		assert.Equal(t, uint32(2), third.CandidateID)

		current, err := svc.Election(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(3), current.CandidateCount)

		roster, err := svc.Candidates(id)
		require.NoError(t, err)
		require.Len(t, roster, 3)
		assert.Equal(t, "Alice", roster[0].Name)
		assert.Equal(t, "Carol", roster[2].Name)
	})

	t.Run("DraftOnlyMutation", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		_, err = svc.AddCandidate(adminAddr, id, "Late", "", "")
		assert.ErrorIs(t, err, ErrCannotModifyActiveElection)
		assert.ErrorIs(t, svc.RemoveCandidate(adminAddr, id, 0), ErrCannotModifyActiveElection)
	})

	t.Run("RemoveKeepsSurvivingIDs", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		require.NoError(t, svc.RemoveCandidate(adminAddr, id, 0))
		assert.ErrorIs(t, svc.RemoveCandidate(adminAddr, id, 0), ErrCandidateNotFound)

		current, err := svc.Election(id)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), current.CandidateCount)

		survivor, err := svc.Candidate(id, 1)
		require.NoError(t, err)
		assert.Equal(t, "Bob", survivor.Name)

		roster, err := svc.Candidates(id)
		require.NoError(t, err)
		require.Len(t, roster, 1)
		assert.Equal(t, uint32(1), roster[0].CandidateID)
	})
}

func TestVoterWhitelist(t *testing.T) {
	t.Run("OpenElectionRejectsRegistration", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		_, err := svc.RequestVoterRegistration(voterA, election.ElectionID)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("RequestApproveFlow", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeWhitelist)
		id := election.ElectionID

		registration, err := svc.RequestVoterRegistration(voterA, id)
		require.NoError(t, err)
		assert.Equal(t, RegistrationPending, registration.Status)
		assert.Nil(t, registration.ApprovedAt)

		_, err = svc.RequestVoterRegistration(voterA, id)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)

		require.NoError(t, svc.ApproveVoterRegistration(adminAddr, id, voterA))
		approved, err := svc.VoterRegistration(id, voterA)
		require.NoError(t, err)
		assert.Equal(t, RegistrationApproved, approved.Status)
		require.NotNil(t, approved.ApprovedBy)
		assert.Equal(t, adminAddr, *approved.ApprovedBy)

		// Approve is only valid from Pending.
		assert.ErrorIs(t, svc.ApproveVoterRegistration(adminAddr, id, voterA), ErrInvalidInput)
	})

	t.Run("RejectAndRevoke", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeWhitelist)
		id := election.ElectionID

		_, err := svc.RequestVoterRegistration(voterA, id)
		require.NoError(t, err)
		require.NoError(t, svc.RejectVoterRegistration(adminAddr, id, voterA))
		assert.ErrorIs(t, svc.RevokeVoterRegistration(adminAddr, id, voterA), ErrInvalidInput)

		_, err = svc.AddVoterDirectly(adminAddr, id, voterB)
		require.NoError(t, err)
		require.NoError(t, svc.RevokeVoterRegistration(adminAddr, id, voterB))
		revoked, err := svc.VoterRegistration(id, voterB)
		require.NoError(t, err)
		assert.Equal(t, RegistrationRevoked, revoked.Status)
	})

	t.Run("DirectAddBySuperAdmin", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeWhitelist)
		id := election.ElectionID

		registration, err := svc.AddVoterDirectly(superAdmin, id, voterA)
		require.NoError(t, err)
		assert.Equal(t, RegistrationApproved, registration.Status)

		_, err = svc.AddVoterDirectly(superAdmin, id, voterA)
		assert.ErrorIs(t, err, ErrAlreadyRegistered)
	})

	t.Run("ReviewRequiresCapability", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeWhitelist)
		id := election.ElectionID
		_, err := svc.RequestVoterRegistration(voterA, id)
		require.NoError(t, err)

		manager := common.HexToAddress("0x0000000000000000000000000000000000000005")
		_, err = svc.AddAdmin(superAdmin, manager, "Manager", Permissions{ManageElections: true})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.ApproveVoterRegistration(manager, id, voterA), ErrInsufficientPermissions)
		assert.ErrorIs(t, svc.ApproveVoterRegistration(stranger, id, voterA), ErrUnauthorized)
		_, err = svc.AddVoterDirectly(manager, id, voterB)
		assert.ErrorIs(t, err, ErrInsufficientPermissions)
	})
}

func TestCastVote(t *testing.T) {
	t.Run("OpenElection", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		record, err := svc.CastVote(voterA, id, 0)
		require.NoError(t, err)
		assert.Equal(t, CandidateAddress(ElectionAddress(id), 0), record.Candidate)
		assert.Equal(t, testNow, record.VotedAt)

		candidate, err := svc.Candidate(id, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), candidate.VoteCount)

		current, err := svc.Election(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), current.TotalVotes)

		voted, err := svc.HasVoted(id, voterA)
		require.NoError(t, err)
		assert.True(t, voted)

		stored, err := svc.VoteRecord(id, voterA)
		require.NoError(t, err)
		assert.Equal(t, record, stored)
		_, err = svc.VoteRecord(id, voterB)
		assert.ErrorIs(t, err, ErrVoteNotFound)
	})

	t.Run("OneVotePerVoter", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		_, err = svc.CastVote(voterA, id, 0)
		require.NoError(t, err)

		// A second vote is rejected even for a different candidate, and
		// no counter moves.
		_, err = svc.CastVote(voterA, id, 1)
		assert.ErrorIs(t, err, ErrAlreadyVoted)

		current, err := svc.Election(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), current.TotalVotes)
		other, err := svc.Candidate(id, 1)
		require.NoError(t, err)
		assert.Zero(t, other.VoteCount)
	})

	t.Run("PhaseGuards", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID

		_, err := svc.CastVote(voterA, id, 0)
		assert.ErrorIs(t, err, ErrElectionNotActive)

		_, err = svc.StartElection(adminAddr, id)
		require.NoError(t, err)
		_, err = svc.EndElection(adminAddr, id)
		require.NoError(t, err)
		_, err = svc.CastVote(voterA, id, 0)
		assert.ErrorIs(t, err, ErrElectionNotActive)
	})

	t.Run("UnknownCandidate", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		_, err = svc.CastVote(voterA, id, 99)
		assert.ErrorIs(t, err, ErrCandidateNotFound)
	})

	t.Run("WhitelistEnforced", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeWhitelist)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		_, err = svc.CastVote(voterA, id, 0)
		assert.ErrorIs(t, err, ErrVoterNotRegistered)

		_, err = svc.RequestVoterRegistration(voterA, id)
		require.NoError(t, err)
		_, err = svc.CastVote(voterA, id, 0)
		assert.ErrorIs(t, err, ErrVoterNotRegistered)

		require.NoError(t, svc.ApproveVoterRegistration(adminAddr, id, voterA))
		_, err = svc.CastVote(voterA, id, 0)
		assert.NoError(t, err)

		// Revocation blocks future votes but keeps the cast one.
		_, err = svc.AddVoterDirectly(adminAddr, id, voterB)
		require.NoError(t, err)
		require.NoError(t, svc.RevokeVoterRegistration(adminAddr, id, voterB))
		_, err = svc.CastVote(voterB, id, 0)
		assert.ErrorIs(t, err, ErrVoterNotRegistered)
	})

	t.Run("ConcurrentDuplicatesCollapse", func(t *testing.T) {
		svc, election := serviceWithElection(t, RegistrationModeOpen)
		id := election.ElectionID
		_, err := svc.StartElection(adminAddr, id)
		require.NoError(t, err)

		const attempts = 16
		var wg sync.WaitGroup
		errs := make([]error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.CastVote(voterA, id, 0)
			}(i)
		}
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrAlreadyVoted)
			}
		}
		assert.Equal(t, 1, succeeded)

		current, err := svc.Election(id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), current.TotalVotes)
	})
}

func TestSystemPause(t *testing.T) {
	svc, election := serviceWithElection(t, RegistrationModeWhitelist)
	id := election.ElectionID

	assert.ErrorIs(t, svc.PauseSystem(adminAddr), ErrUnauthorized)
	require.NoError(t, svc.PauseSystem(superAdmin))

	// Every guarded mutation is blocked while paused.
	_, err := svc.CreateElection(adminAddr, electionParams(RegistrationModeOpen))
	assert.ErrorIs(t, err, ErrSystemPaused)
	_, err = svc.StartElection(adminAddr, id)
	assert.ErrorIs(t, err, ErrSystemPaused)
	_, err = svc.AddCandidate(adminAddr, id, "Late", "", "")
	assert.ErrorIs(t, err, ErrSystemPaused)
	_, err = svc.RequestVoterRegistration(voterA, id)
	assert.ErrorIs(t, err, ErrSystemPaused)
	_, err = svc.CastVote(voterA, id, 0)
	assert.ErrorIs(t, err, ErrSystemPaused)

	// Reads still work.
	_, err = svc.Election(id)
	assert.NoError(t, err)

	// Pause is idempotent and reversible.
	require.NoError(t, svc.PauseSystem(superAdmin))
	require.NoError(t, svc.UnpauseSystem(superAdmin))
	_, err = svc.StartElection(adminAddr, id)
	assert.NoError(t, err)
}

func TestEventCallback(t *testing.T) {
	svc := newTestService(t)
	var events []Event
	svc.SetEventCallback(func(e Event) { events = append(events, e) })

	_, err := svc.InitializeRegistry(superAdmin)
	require.NoError(t, err)
	_, err = svc.AddAdmin(superAdmin, adminAddr, "Ops", FullPermissions())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, EventRegistryInitialized, events[0].Type)
	assert.Equal(t, EventAdminAdded, events[1].Type)
	assert.Equal(t, testNow, events[0].Timestamp)
}
