package ledger

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCodecs(t *testing.T) {
	authority := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	voter := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	election := ElectionAddress(3)

	t.Run("AdminRegistry", func(t *testing.T) {
		reg := &AdminRegistry{
			SuperAdmin:    authority,
			ElectionCount: 42,
			AdminCount:    7,
			Paused:        true,
		}
		data := reg.Encode()
		assert.Len(t, data, AdminRegistrySize)

		decoded, err := DecodeAdminRegistry(data)
		require.NoError(t, err)
		assert.Equal(t, reg, decoded)
	})

	t.Run("Admin", func(t *testing.T) {
		admin := &Admin{
			Authority:   authority,
			Name:        "Regional Admin",
			Permissions: Permissions{ManageElections: true, FinalizeResults: true},
			AddedBy:     voter,
			AddedAt:     1700000000,
			IsActive:    true,
		}
		data, err := admin.Encode()
		require.NoError(t, err)
		assert.Len(t, data, AdminSize)

		decoded, err := DecodeAdmin(data)
		require.NoError(t, err)
		assert.Equal(t, admin, decoded)
	})

	t.Run("Election", func(t *testing.T) {
		e := &Election{
			ElectionID:       3,
			Authority:        authority,
			Title:            "Board Election",
			Description:      "Annual board member election",
			StartTime:        1700000000,
			EndTime:          1700086400,
			Status:           StatusActive,
			TotalVotes:       999,
			CandidateCount:   4,
			RegistrationMode: RegistrationModeWhitelist,
		}
		data, err := e.Encode()
		require.NoError(t, err)
		assert.Len(t, data, ElectionSize)

		decoded, err := DecodeElection(data)
		require.NoError(t, err)
		assert.Equal(t, e, decoded)
	})

	t.Run("Candidate", func(t *testing.T) {
		c := &Candidate{
			Election:    election,
			CandidateID: 2,
			Name:        "John Doe",
			Description: "Independent",
			ImageURL:    "https://example.com/jd.png",
			VoteCount:   17,
			AddedBy:     authority,
			AddedAt:     1700000100,
		}
		data, err := c.Encode()
		require.NoError(t, err)
		assert.Len(t, data, CandidateSize)

		decoded, err := DecodeCandidate(data)
		require.NoError(t, err)
		assert.Equal(t, c, decoded)
	})

	t.Run("VoterRegistrationPending", func(t *testing.T) {
		v := &VoterRegistration{
			Election:    election,
			Voter:       voter,
			Status:      RegistrationPending,
			RequestedAt: 1700000200,
		}
		data := v.Encode()
		assert.Len(t, data, VoterRegistrationSize)

		decoded, err := DecodeVoterRegistration(data)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
		assert.Nil(t, decoded.ApprovedAt)
		assert.Nil(t, decoded.ApprovedBy)
	})

	t.Run("VoterRegistrationApproved", func(t *testing.T) {
		approvedAt := int64(1700000300)
		approvedBy := authority
		v := &VoterRegistration{
			Election:    election,
			Voter:       voter,
			Status:      RegistrationApproved,
			RequestedAt: 1700000200,
			ApprovedAt:  &approvedAt,
			ApprovedBy:  &approvedBy,
		}
		data := v.Encode()
		assert.Len(t, data, VoterRegistrationSize)

		decoded, err := DecodeVoterRegistration(data)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	})

	t.Run("VoteRecord", func(t *testing.T) {
		v := &VoteRecord{
			Election:  election,
			Voter:     voter,
			Candidate: CandidateAddress(election, 2),
			VotedAt:   1700000400,
		}
		data := v.Encode()
		assert.Len(t, data, VoteRecordSize)

		decoded, err := DecodeVoteRecord(data)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	})
}

func TestRecordCapacities(t *testing.T) {
	t.Run("AtCapacityAccepted", func(t *testing.T) {
		e := &Election{
			Title:       strings.Repeat("t", MaxTitleLength),
			Description: strings.Repeat("d", MaxDescriptionLength),
		}
		data, err := e.Encode()
		require.NoError(t, err)
		assert.Len(t, data, ElectionSize)

		decoded, err := DecodeElection(data)
		require.NoError(t, err)
		assert.Equal(t, e.Title, decoded.Title)
		assert.Equal(t, e.Description, decoded.Description)
	})

	t.Run("OverCapacityRejected", func(t *testing.T) {
		e := &Election{Title: strings.Repeat("t", MaxTitleLength+1)}
		_, err := e.Encode()
		assert.Error(t, err)

		a := &Admin{Name: strings.Repeat("n", MaxNameLength+1)}
		_, err = a.Encode()
		assert.Error(t, err)

		c := &Candidate{ImageURL: strings.Repeat("u", MaxImageURLLength+1)}
		_, err = c.Encode()
		assert.Error(t, err)
	})

	t.Run("TruncatedDataRejected", func(t *testing.T) {
		reg := &AdminRegistry{SuperAdmin: common.HexToAddress("0x01")}
		data := reg.Encode()

		_, err := DecodeAdminRegistry(data[:len(data)-1])
		assert.Error(t, err)
	})
}
