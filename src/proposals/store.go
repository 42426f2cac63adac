package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/govtool/src/types"
)

// ErrNotFound is returned when a proposal is not indexed.
var ErrNotFound = errors.New("proposals: not found")

// Store serves proposals and votes from the local index.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FetchProposals lists proposals of the requested types. When a DRep id is
// given, proposals that DRep has already voted on are left out.
func (s *Store) FetchProposals(ctx context.Context, req Request) (Page, error) {
	q := s.db.WithContext(ctx).Model(&types.Proposal{})
	if len(req.Filters) > 0 {
		q = q.Where("type IN ?", req.Filters)
	}
	if phrase := strings.ToLower(strings.TrimSpace(req.SearchPhrase)); phrase != "" {
		like := "%" + phrase + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(about) LIKE ? OR LOWER(tx_hash) LIKE ?", like, like, like)
	}
	if req.DRepID != "" {
		voted := s.db.Model(&types.ProposalVote{}).Select("proposal_id").Where("drep_id = ?", req.DRepID)
		q = q.Where("id NOT IN (?)", voted)
	}
	switch req.Sorting {
	case SortSoonestToExpire:
		q = q.Order("expiry_date asc")
	case SortNewestCreated:
		q = q.Order("created_date desc")
	default:
		q = q.Order("id asc")
	}

	var rows []types.Proposal
	if err := q.Find(&rows).Error; err != nil {
		return Page{}, err
	}

	page := Page{Elements: make([]Proposal, 0, len(rows)), PageSize: len(rows), Total: len(rows)}
	for _, row := range rows {
		page.Elements = append(page.Elements, fromRow(row))
	}
	return page, nil
}

func (s *Store) FetchVotes(ctx context.Context, dRepID string) ([]VotedProposal, error) {
	var rows []types.ProposalVote
	err := s.db.WithContext(ctx).Preload("Proposal").
		Where("drep_id = ?", dRepID).Order("created_at desc").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]VotedProposal, 0, len(rows))
	for _, row := range rows {
		p := fromRow(row.Proposal)
		out = append(out, VotedProposal{
			Proposal: p,
			Vote: Vote{
				ProposalID: p.ID(),
				DRepID:     row.DRepID,
				Vote:       row.Vote,
				TxHash:     row.TxHash,
				Date:       row.CreatedAt,
			},
		})
	}
	return out, nil
}

// Upsert indexes p, updating the descriptive fields of an existing row.
func (s *Store) Upsert(ctx context.Context, p Proposal) error {
	row := toRow(p)
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tx_hash"}, {Name: "action_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"type", "title", "about", "expiry_date", "expiry_epoch_no"}),
	}).Create(&row).Error
}

// RecordVote stores or replaces dRepID's vote on the proposal govActionID.
func (s *Store) RecordVote(ctx context.Context, dRepID, govActionID, vote, txHash string) error {
	switch vote {
	case VoteYes, VoteNo, VoteAbstain:
	default:
		return fmt.Errorf("invalid vote %q", vote)
	}
	hash, idx, err := ParseGovActionID(govActionID)
	if err != nil {
		return err
	}

	var p types.Proposal
	err = s.db.WithContext(ctx).First(&p, "tx_hash = ? AND action_index = ?", hash, idx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	row := types.ProposalVote{ProposalID: p.ID, DRepID: dRepID, Vote: vote, TxHash: txHash}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "proposal_id"}, {Name: "drep_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"vote", "tx_hash"}),
	}).Create(&row).Error
}

func fromRow(row types.Proposal) Proposal {
	return Proposal{
		Type:           row.Type,
		TxHash:         row.TxHash,
		Index:          row.Index,
		Title:          row.Title,
		About:          row.About,
		CreatedDate:    row.CreatedDate,
		CreatedEpochNo: row.CreatedEpochNo,
		ExpiryDate:     row.ExpiryDate,
		ExpiryEpochNo:  row.ExpiryEpochNo,
	}
}

func toRow(p Proposal) types.Proposal {
	return types.Proposal{
		Type:           p.Type,
		TxHash:         strings.ToLower(p.TxHash),
		Index:          p.Index,
		Title:          p.Title,
		About:          p.About,
		CreatedDate:    p.CreatedDate,
		CreatedEpochNo: p.CreatedEpochNo,
		ExpiryDate:     p.ExpiryDate,
		ExpiryEpochNo:  p.ExpiryEpochNo,
	}
}
