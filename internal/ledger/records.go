package ledger

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// String field capacities. A field at exactly its capacity is accepted; one
// byte over is rejected before any write.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxNameLength        = 50
	MaxImageURLLength    = 200
)

// recordVersion is the trailing layout byte on every encoded record.
const recordVersion = 1

// Encoded record sizes in bytes. Strings are stored as a 4-byte length prefix
// followed by a fixed-capacity buffer; optional fields as a presence byte
// followed by the value; identities as 32-byte left-padded fields.
const (
	AdminRegistrySize     = 32 + 8 + 4 + 1 + 1
	AdminSize             = 32 + (4 + MaxNameLength) + 4 + 32 + 8 + 1 + 1
	ElectionSize          = 8 + 32 + (4 + MaxTitleLength) + (4 + MaxDescriptionLength) + 8 + 8 + 1 + 8 + 4 + 1 + 1
	CandidateSize         = 32 + 4 + (4 + MaxNameLength) + (4 + MaxDescriptionLength) + (4 + MaxImageURLLength) + 8 + 32 + 8 + 1
	VoterRegistrationSize = 32 + 32 + 1 + 8 + (1 + 8) + (1 + 32) + 1
	VoteRecordSize        = 32 + 32 + 32 + 8 + 1
)

// Permissions is the capability set delegated to an admin.
type Permissions struct {
	ManageElections  bool `json:"manage_elections"`
	ManageCandidates bool `json:"manage_candidates"`
	ManageVoters     bool `json:"manage_voters"`
	FinalizeResults  bool `json:"finalize_results"`
}

// FullPermissions returns a permission set with every capability granted.
func FullPermissions() Permissions {
	return Permissions{
		ManageElections:  true,
		ManageCandidates: true,
		ManageVoters:     true,
		FinalizeResults:  true,
	}
}

// NoPermissions returns an empty permission set.
func NoPermissions() Permissions {
	return Permissions{}
}

// Capability names a single permission bit for authorization checks.
type Capability uint8

const (
	CapManageElections Capability = iota
	CapManageCandidates
	CapManageVoters
	CapFinalizeResults
)

// Has reports whether the permission set grants the capability.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CapManageElections:
		return p.ManageElections
	case CapManageCandidates:
		return p.ManageCandidates
	case CapManageVoters:
		return p.ManageVoters
	case CapFinalizeResults:
		return p.FinalizeResults
	}
	return false
}

// ElectionStatus is the lifecycle phase of an election.
type ElectionStatus uint8

const (
	StatusDraft ElectionStatus = iota
	StatusActive
	StatusEnded
	StatusCancelled
	StatusFinalized
)

func (s ElectionStatus) String() string {
	switch s {
	case StatusDraft:
		return "draft"
	case StatusActive:
		return "active"
	case StatusEnded:
		return "ended"
	case StatusCancelled:
		return "cancelled"
	case StatusFinalized:
		return "finalized"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// RegistrationMode controls whether an election requires voter whitelisting.
type RegistrationMode uint8

const (
	RegistrationModeOpen RegistrationMode = iota
	RegistrationModeWhitelist
)

func (m RegistrationMode) String() string {
	if m == RegistrationModeWhitelist {
		return "whitelist"
	}
	return "open"
}

// RegistrationStatus is the state of a voter registration request.
type RegistrationStatus uint8

const (
	RegistrationPending RegistrationStatus = iota
	RegistrationApproved
	RegistrationRejected
	RegistrationRevoked
)

func (s RegistrationStatus) String() string {
	switch s {
	case RegistrationPending:
		return "pending"
	case RegistrationApproved:
		return "approved"
	case RegistrationRejected:
		return "rejected"
	case RegistrationRevoked:
		return "revoked"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// AdminRegistry is the process-wide singleton rooting the permission model.
type AdminRegistry struct {
	SuperAdmin    common.Address
	ElectionCount uint64
	AdminCount    uint32
	Paused        bool
}

// Admin is a delegated administrator record, addressed by its authority.
type Admin struct {
	Authority   common.Address
	Name        string
	Permissions Permissions
	AddedBy     common.Address
	AddedAt     int64
	IsActive    bool
}

// Election is an election record, addressed by its sequential ID.
type Election struct {
	ElectionID       uint64
	Authority        common.Address
	Title            string
	Description      string
	StartTime        int64
	EndTime          int64
	Status           ElectionStatus
	TotalVotes       uint64
	CandidateCount   uint32
	RegistrationMode RegistrationMode
}

// Candidate is a roster entry scoped to an election.
type Candidate struct {
	Election    common.Hash
	CandidateID uint32
	Name        string
	Description string
	ImageURL    string
	VoteCount   uint64
	AddedBy     common.Address
	AddedAt     int64
}

// VoterRegistration tracks a voter through the whitelist workflow.
type VoterRegistration struct {
	Election    common.Hash
	Voter       common.Address
	Status      RegistrationStatus
	RequestedAt int64
	ApprovedAt  *int64
	ApprovedBy  *common.Address
}

// VoteRecord is the proof that a voter has voted in an election. One exists
// per (election, voter) pair, enforced by its derived address.
type VoteRecord struct {
	Election  common.Hash
	Voter     common.Address
	Candidate common.Hash
	VotedAt   int64
}

// --- encoding helpers ---

func appendIdentity(b []byte, a common.Address) []byte {
	return append(b, common.LeftPadBytes(a.Bytes(), 32)...)
}

func appendHash(b []byte, h common.Hash) []byte {
	return append(b, h.Bytes()...)
}

func appendBoundedString(b []byte, s string, capacity int) []byte {
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], uint32(len(s)))
	b = append(b, size[:]...)
	b = append(b, s...)
	return append(b, make([]byte, capacity-len(s))...)
}

func appendU32(b []byte, v uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendU64(b []byte, v uint64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

func appendI64(b []byte, v int64) []byte {
	return appendU64(b, uint64(v))
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

// recordReader walks an encoded record. Out-of-bounds reads flag err instead
// of panicking; callers check err once after all fields are consumed.
type recordReader struct {
	buf []byte
	off int
	err error
}

func (r *recordReader) take(n int) []byte {
	if r.err != nil || r.off+n > len(r.buf) {
		r.err = fmt.Errorf("record truncated at offset %d", r.off)
		return make([]byte, n)
	}
	out := r.buf[r.off : r.off+n]
	r.off += n
	return out
}

func (r *recordReader) identity() common.Address {
	return common.BytesToAddress(r.take(32))
}

func (r *recordReader) hash() common.Hash {
	return common.BytesToHash(r.take(32))
}

func (r *recordReader) boundedString(capacity int) string {
	size := binary.LittleEndian.Uint32(r.take(4))
	body := r.take(capacity)
	if r.err != nil || int(size) > capacity {
		if r.err == nil {
			r.err = fmt.Errorf("string length %d exceeds capacity %d", size, capacity)
		}
		return ""
	}
	return string(body[:size])
}

func (r *recordReader) u32() uint32 {
	return binary.LittleEndian.Uint32(r.take(4))
}

func (r *recordReader) u64() uint64 {
	return binary.LittleEndian.Uint64(r.take(8))
}

func (r *recordReader) i64() int64 {
	return int64(r.u64())
}

func (r *recordReader) boolean() bool {
	return r.take(1)[0] != 0
}

// --- codecs ---

// Encode serializes the registry into its fixed layout.
func (reg *AdminRegistry) Encode() []byte {
	b := make([]byte, 0, AdminRegistrySize)
	b = appendIdentity(b, reg.SuperAdmin)
	b = appendU64(b, reg.ElectionCount)
	b = appendU32(b, reg.AdminCount)
	b = appendBool(b, reg.Paused)
	return append(b, recordVersion)
}

// DecodeAdminRegistry parses a registry record.
func DecodeAdminRegistry(data []byte) (*AdminRegistry, error) {
	r := &recordReader{buf: data}
	reg := &AdminRegistry{
		SuperAdmin:    r.identity(),
		ElectionCount: r.u64(),
		AdminCount:    r.u32(),
		Paused:        r.boolean(),
	}
	r.take(1) // version
	return reg, r.err
}

// Encode serializes the admin into its fixed layout. The name must fit its
// capacity; callers validate before mutating, this is the final guard.
func (a *Admin) Encode() ([]byte, error) {
	if len(a.Name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	b := make([]byte, 0, AdminSize)
	b = appendIdentity(b, a.Authority)
	b = appendBoundedString(b, a.Name, MaxNameLength)
	b = appendBool(b, a.Permissions.ManageElections)
	b = appendBool(b, a.Permissions.ManageCandidates)
	b = appendBool(b, a.Permissions.ManageVoters)
	b = appendBool(b, a.Permissions.FinalizeResults)
	b = appendIdentity(b, a.AddedBy)
	b = appendI64(b, a.AddedAt)
	b = appendBool(b, a.IsActive)
	return append(b, recordVersion), nil
}

// DecodeAdmin parses an admin record.
func DecodeAdmin(data []byte) (*Admin, error) {
	r := &recordReader{buf: data}
	a := &Admin{
		Authority: r.identity(),
		Name:      r.boundedString(MaxNameLength),
		Permissions: Permissions{
			ManageElections:  r.boolean(),
			ManageCandidates: r.boolean(),
			ManageVoters:     r.boolean(),
			FinalizeResults:  r.boolean(),
		},
		AddedBy:  r.identity(),
		AddedAt:  r.i64(),
		IsActive: r.boolean(),
	}
	r.take(1)
	return a, r.err
}

// Encode serializes the election into its fixed layout.
func (e *Election) Encode() ([]byte, error) {
	if len(e.Title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(e.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	b := make([]byte, 0, ElectionSize)
	b = appendU64(b, e.ElectionID)
	b = appendIdentity(b, e.Authority)
	b = appendBoundedString(b, e.Title, MaxTitleLength)
	b = appendBoundedString(b, e.Description, MaxDescriptionLength)
	b = appendI64(b, e.StartTime)
	b = appendI64(b, e.EndTime)
	b = append(b, byte(e.Status))
	b = appendU64(b, e.TotalVotes)
	b = appendU32(b, e.CandidateCount)
	b = append(b, byte(e.RegistrationMode))
	return append(b, recordVersion), nil
}

// DecodeElection parses an election record.
func DecodeElection(data []byte) (*Election, error) {
	r := &recordReader{buf: data}
	e := &Election{
		ElectionID:  r.u64(),
		Authority:   r.identity(),
		Title:       r.boundedString(MaxTitleLength),
		Description: r.boundedString(MaxDescriptionLength),
		StartTime:   r.i64(),
		EndTime:     r.i64(),
	}
	e.Status = ElectionStatus(r.take(1)[0])
	e.TotalVotes = r.u64()
	e.CandidateCount = r.u32()
	e.RegistrationMode = RegistrationMode(r.take(1)[0])
	r.take(1)
	return e, r.err
}

// Encode serializes the candidate into its fixed layout.
func (c *Candidate) Encode() ([]byte, error) {
	if len(c.Name) > MaxNameLength {
		return nil, ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}
	if len(c.ImageURL) > MaxImageURLLength {
		return nil, ErrImageURLTooLong
	}
	b := make([]byte, 0, CandidateSize)
	b = appendHash(b, c.Election)
	b = appendU32(b, c.CandidateID)
	b = appendBoundedString(b, c.Name, MaxNameLength)
	b = appendBoundedString(b, c.Description, MaxDescriptionLength)
	b = appendBoundedString(b, c.ImageURL, MaxImageURLLength)
	b = appendU64(b, c.VoteCount)
	b = appendIdentity(b, c.AddedBy)
	b = appendI64(b, c.AddedAt)
	return append(b, recordVersion), nil
}

// DecodeCandidate parses a candidate record.
func DecodeCandidate(data []byte) (*Candidate, error) {
	r := &recordReader{buf: data}
	c := &Candidate{
		Election:    r.hash(),
		CandidateID: r.u32(),
		Name:        r.boundedString(MaxNameLength),
		Description: r.boundedString(MaxDescriptionLength),
		ImageURL:    r.boundedString(MaxImageURLLength),
		VoteCount:   r.u64(),
		AddedBy:     r.identity(),
		AddedAt:     r.i64(),
	}
	r.take(1)
	return c, r.err
}

// Encode serializes the registration into its fixed layout.
func (v *VoterRegistration) Encode() []byte {
	b := make([]byte, 0, VoterRegistrationSize)
	b = appendHash(b, v.Election)
	b = appendIdentity(b, v.Voter)
	b = append(b, byte(v.Status))
	b = appendI64(b, v.RequestedAt)
	if v.ApprovedAt != nil {
		b = append(b, 1)
		b = appendI64(b, *v.ApprovedAt)
	} else {
		b = append(b, 0)
		b = append(b, make([]byte, 8)...)
	}
	if v.ApprovedBy != nil {
		b = append(b, 1)
		b = appendIdentity(b, *v.ApprovedBy)
	} else {
		b = append(b, 0)
		b = append(b, make([]byte, 32)...)
	}
	return append(b, recordVersion)
}

// DecodeVoterRegistration parses a registration record.
func DecodeVoterRegistration(data []byte) (*VoterRegistration, error) {
	r := &recordReader{buf: data}
	v := &VoterRegistration{
		Election: r.hash(),
		Voter:    r.identity(),
	}
	v.Status = RegistrationStatus(r.take(1)[0])
	v.RequestedAt = r.i64()
	if r.boolean() {
		at := r.i64()
		v.ApprovedAt = &at
	} else {
		r.take(8)
	}
	if r.boolean() {
		by := r.identity()
		v.ApprovedBy = &by
	} else {
		r.take(32)
	}
	r.take(1)
	return v, r.err
}

// Encode serializes the vote record into its fixed layout.
func (v *VoteRecord) Encode() []byte {
	b := make([]byte, 0, VoteRecordSize)
	b = appendHash(b, v.Election)
	b = appendIdentity(b, v.Voter)
	b = appendHash(b, v.Candidate)
	b = appendI64(b, v.VotedAt)
	return append(b, recordVersion)
}

// DecodeVoteRecord parses a vote record.
func DecodeVoteRecord(data []byte) (*VoteRecord, error) {
	r := &recordReader{buf: data}
	v := &VoteRecord{
		Election:  r.hash(),
		Voter:     r.identity(),
		Candidate: r.hash(),
		VotedAt:   r.i64(),
	}
	r.take(1)
	return v, r.err
}
