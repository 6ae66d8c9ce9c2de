package ledger

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Seed prefixes for deterministic record addressing. Every record kind derives
// its storage address from its kind prefix plus its parent identifiers, so the
// same entity always lands at the same address and a create at an occupied
// address is the duplicate check.
const (
	seedRegistry          = "admin_registry"
	seedAdmin             = "admin"
	seedElection          = "election"
	seedCandidate         = "candidate"
	seedVoterRegistration = "voter_reg"
	seedVoteRecord        = "vote"
)

// deriveAddress hashes an ordered seed tuple into a storage address. Each part
// is length-prefixed before hashing so distinct tuples can never share a
// preimage (e.g. ["ab","c"] vs ["a","bc"]).
func deriveAddress(parts ...[]byte) common.Hash {
	buf := make([]byte, 0, 64)
	for _, part := range parts {
		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], uint32(len(part)))
		buf = append(buf, size[:]...)
		buf = append(buf, part...)
	}
	return crypto.Keccak256Hash(buf)
}

// RegistryAddress returns the address of the admin registry singleton.
func RegistryAddress() common.Hash {
	return deriveAddress([]byte(seedRegistry))
}

// AdminAddress returns the address of the admin record for an authority.
func AdminAddress(authority common.Address) common.Hash {
	return deriveAddress([]byte(seedAdmin), authority.Bytes())
}

// ElectionAddress returns the address of an election by its sequential ID.
func ElectionAddress(electionID uint64) common.Hash {
	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], electionID)
	return deriveAddress([]byte(seedElection), id[:])
}

// CandidateAddress returns the address of a candidate within an election.
func CandidateAddress(election common.Hash, candidateID uint32) common.Hash {
	var id [4]byte
	binary.LittleEndian.PutUint32(id[:], candidateID)
	return deriveAddress([]byte(seedCandidate), election.Bytes(), id[:])
}

// VoterRegistrationAddress returns the address of the registration record for
// a voter in an election.
func VoterRegistrationAddress(election common.Hash, voter common.Address) common.Hash {
	return deriveAddress([]byte(seedVoterRegistration), election.Bytes(), voter.Bytes())
}

// VoteRecordAddress returns the address of the vote record for a voter in an
// election. Existence of a record at this address is the proof-of-vote.
func VoteRecordAddress(election common.Hash, voter common.Address) common.Hash {
	return deriveAddress([]byte(seedVoteRecord), election.Bytes(), voter.Bytes())
}
