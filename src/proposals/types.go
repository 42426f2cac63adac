package proposals

import "time"

// Proposal types as reported by the ledger.
const (
	TypeNoConfidence        = "NoConfidence"
	TypeNewCommittee        = "NewCommittee"
	TypeNewConstitution     = "NewConstitution"
	TypeHardForkInitiation  = "HardForkInitiation"
	TypeParameterChange     = "ParameterChange"
	TypeTreasuryWithdrawals = "TreasuryWithdrawals"
	TypeInfoAction          = "InfoAction"
)

// AllTypes lists every proposal type in display order.
var AllTypes = []string{
	TypeNoConfidence, TypeNewCommittee, TypeNewConstitution, TypeHardForkInitiation,
	TypeParameterChange, TypeTreasuryWithdrawals, TypeInfoAction,
}

// Sort orders understood by the backends.
const (
	SortSoonestToExpire = "SoonestToExpire"
	SortNewestCreated   = "NewestCreated"
)

// Vote values.
const (
	VoteYes     = "yes"
	VoteNo      = "no"
	VoteAbstain = "abstain"
)

// Proposal is a governance action. TxHash and Index together identify it.
type Proposal struct {
	Type           string    `json:"type"`
	TxHash         string    `json:"txHash"`
	Index          uint32    `json:"index"`
	Title          string    `json:"title,omitempty"`
	About          string    `json:"about,omitempty"`
	CreatedDate    time.Time `json:"createdDate"`
	CreatedEpochNo uint64    `json:"createdEpochNo"`
	ExpiryDate     time.Time `json:"expiryDate"`
	ExpiryEpochNo  uint64    `json:"expiryEpochNo"`
}

// ID returns the full governance action id.
func (p Proposal) ID() string {
	return FullGovActionID(p.TxHash, p.Index)
}

// Vote is a DRep's recorded vote on a proposal.
type Vote struct {
	ProposalID string    `json:"proposalId"`
	DRepID     string    `json:"drepId"`
	Vote       string    `json:"vote"`
	TxHash     string    `json:"txHash,omitempty"`
	Date       time.Time `json:"date"`
}

// VotedProposal pairs a proposal with the identity's vote on it.
type VotedProposal struct {
	Proposal Proposal `json:"proposal"`
	Vote     Vote     `json:"vote"`
}

// Group holds the proposals of one type in arrival order.
type Group struct {
	Title   string     `json:"title"`
	Actions []Proposal `json:"actions"`
}

// Query is what a caller asks for.
type Query struct {
	Filters      []string
	SearchPhrase string
	Sorting      string
}

// Request is a single backend call; it carries exactly one filter when
// issued by Service.
type Request struct {
	DRepID       string
	Filters      []string
	SearchPhrase string
	Sorting      string
}

// Page is one backend response.
type Page struct {
	Elements []Proposal `json:"elements"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int        `json:"total"`
}

// VoterInfo is the registration status of an identity.
type VoterInfo struct {
	IsRegisteredAsDRep      bool `json:"isRegisteredAsDRep"`
	IsRegisteredAsSoleVoter bool `json:"isRegisteredAsSoleVoter"`
}

// Identity is the connected wallet as seen by the query layer.
type Identity struct {
	DRepID string
	Voter  VoterInfo
	// PendingVoteTx is the hash of the identity's most recent vote
	// transaction; a new value invalidates cached results.
	PendingVoteTx string
}
