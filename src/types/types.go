package types

import "time"

// Governance actions indexed from the ledger.
type Proposal struct {
	ID             uint64    `gorm:"primaryKey"`
	TxHash         string    `gorm:"size:64;uniqueIndex:idx_proposal_action,priority:1;not null"`
	Index          uint32    `gorm:"column:action_index;uniqueIndex:idx_proposal_action,priority:2;not null"`
	Type           string    `gorm:"size:64;index;not null"`
	Title          string    `gorm:"size:255"`
	About          string    `gorm:"type:text"`
	CreatedDate    time.Time `gorm:"index"`
	CreatedEpochNo uint64
	ExpiryDate     time.Time `gorm:"index"`
	ExpiryEpochNo  uint64
}

// On-chain votes cast by DReps.
type ProposalVote struct {
	ID         uint64 `gorm:"primaryKey"`
	ProposalID uint64 `gorm:"uniqueIndex:idx_vote_voter,priority:1;not null"`
	DRepID     string `gorm:"column:drep_id;size:64;uniqueIndex:idx_vote_voter,priority:2;not null"`
	Vote       string `gorm:"size:16;not null"` // yes, no, abstain
	TxHash     string `gorm:"size:64"`
	CreatedAt  time.Time
	Proposal   Proposal `gorm:"foreignKey:ProposalID"`
}

// Registration kinds.
const (
	RegistrationDRep      = "drep"
	RegistrationSoleVoter = "sole_voter"
)

// DRep and sole voter registrations.
type DRepRegistration struct {
	ID           uint64 `gorm:"primaryKey"`
	DRepID       string `gorm:"column:drep_id;size:64;uniqueIndex;not null"`
	Kind         string `gorm:"size:16;not null"`
	Name         string `gorm:"size:128"`
	MetadataURL  string `gorm:"size:128"`
	MetadataHash string `gorm:"size:64"`
	TxHash       string `gorm:"size:64"`
	Active       bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Discussion comments; replies carry ParentID.
type Comment struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	ProposalID uint64    `gorm:"index;not null" json:"proposalId"`
	ParentID   *uint64   `gorm:"index" json:"parentId,omitempty"`
	Author     string    `gorm:"size:128;not null" json:"author"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Reaction targets.
const (
	TargetProposal = "proposal"
	TargetComment  = "comment"
)

// Likes (+1) and dislikes (-1), one per author per target.
type Reaction struct {
	ID         uint64 `gorm:"primaryKey"`
	TargetType string `gorm:"size:16;uniqueIndex:idx_reaction_author,priority:1;not null"`
	TargetID   uint64 `gorm:"uniqueIndex:idx_reaction_author,priority:2;not null"`
	Author     string `gorm:"size:128;uniqueIndex:idx_reaction_author,priority:3;not null"`
	Kind       int8   `gorm:"not null"`
	CreatedAt  time.Time
}

// Poll statuses.
const (
	PollOpen   = "open"
	PollClosed = "closed"
)

// Yes/no polls attached to a proposal discussion.
type Poll struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	ProposalID uint64    `gorm:"index;not null" json:"proposalId"`
	Author     string    `gorm:"size:128;not null" json:"author"`
	Status     string    `gorm:"size:16;not null" json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type PollVote struct {
	ID        uint64 `gorm:"primaryKey"`
	PollID    uint64 `gorm:"uniqueIndex:idx_poll_voter,priority:1;not null"`
	Voter     string `gorm:"size:128;uniqueIndex:idx_poll_voter,priority:2;not null"`
	Choice    string `gorm:"size:8;not null"` // yes, no
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting represents a configuration setting stored in the database
type Setting struct {
	ID     uint8  `gorm:"primaryKey"`
	Name   string `gorm:"size:32;not null"`
	Value  string `gorm:"type:text;not null"`
	Active uint8  `gorm:"not null"`
}

// AllModels lists every table owned by the service, in migration order.
var AllModels = []interface{}{
	&Setting{},
	&Proposal{}, &ProposalVote{},
	&DRepRegistration{},
	&Comment{}, &Reaction{},
	&Poll{}, &PollVote{},
}
