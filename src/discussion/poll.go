package discussion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/govtool/src/types"
)

// Poll choices.
const (
	ChoiceYes = "yes"
	ChoiceNo  = "no"
)

var (
	ErrPollExists    = errors.New("proposal already has an open poll")
	ErrPollClosed    = errors.New("poll is closed")
	ErrNotPollAuthor = errors.New("only the poll author can close it")
	ErrInvalidChoice = errors.New("choice must be yes or no")
)

// PollResult is the tally of a poll.
type PollResult struct {
	PollID     uint64 `json:"pollId"`
	ProposalID uint64 `json:"proposalId"`
	Status     string `json:"status"`
	Yes        int64  `json:"yes"`
	No         int64  `json:"no"`
	YesPercent int    `json:"yesPercent"`
	NoPercent  int    `json:"noPercent"`
}

// Label renders a choice as "Yes: (75%)".
func (r PollResult) Label(choice string) string {
	if choice == ChoiceNo {
		return fmt.Sprintf("No: (%d%%)", r.NoPercent)
	}
	return fmt.Sprintf("Yes: (%d%%)", r.YesPercent)
}

// percent rounds n/total to the nearest whole percent.
func percent(n, total int64) int {
	if total == 0 {
		return 0
	}
	return int((n*200 + total) / (total * 2))
}

// CreatePoll opens a yes/no poll on a proposal.
func (s *Service) CreatePoll(ctx context.Context, proposalID uint64, author string) (*types.Poll, error) {
	if err := s.proposalExists(ctx, proposalID); err != nil {
		return nil, err
	}
	var p *types.Poll
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&types.Poll{}).
			Where("proposal_id = ? AND status = ?", proposalID, types.PollOpen).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrPollExists
		}
		p = &types.Poll{ProposalID: proposalID, Author: author, Status: types.PollOpen}
		return tx.Create(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) poll(ctx context.Context, id uint64) (*types.Poll, error) {
	var p types.Poll
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("poll %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &p, nil
}

// VotePoll records or changes voter's choice on an open poll.
func (s *Service) VotePoll(ctx context.Context, pollID uint64, voter, choice string) (PollResult, error) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if choice != ChoiceYes && choice != ChoiceNo {
		return PollResult{}, ErrInvalidChoice
	}
	p, err := s.poll(ctx, pollID)
	if err != nil {
		return PollResult{}, err
	}
	if p.Status != types.PollOpen {
		return PollResult{}, ErrPollClosed
	}
	v := types.PollVote{PollID: pollID, Voter: voter, Choice: choice}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "poll_id"}, {Name: "voter"}},
		DoUpdates: clause.AssignmentColumns([]string{"choice", "updated_at"}),
	}).Create(&v).Error
	if err != nil {
		return PollResult{}, err
	}
	return s.tally(ctx, p)
}

// ClosePoll stops voting; results stay readable.
func (s *Service) ClosePoll(ctx context.Context, pollID uint64, author string) (PollResult, error) {
	p, err := s.poll(ctx, pollID)
	if err != nil {
		return PollResult{}, err
	}
	if p.Author != author {
		return PollResult{}, ErrNotPollAuthor
	}
	if err := s.db.WithContext(ctx).Model(p).Update("status", types.PollClosed).Error; err != nil {
		return PollResult{}, err
	}
	p.Status = types.PollClosed
	return s.tally(ctx, p)
}

// Poll returns the current tally of a poll.
func (s *Service) Poll(ctx context.Context, pollID uint64) (PollResult, error) {
	p, err := s.poll(ctx, pollID)
	if err != nil {
		return PollResult{}, err
	}
	return s.tally(ctx, p)
}

// PollVote returns voter's choice, or "" when they have not voted.
func (s *Service) PollVote(ctx context.Context, pollID uint64, voter string) (string, error) {
	var v types.PollVote
	err := s.db.WithContext(ctx).Where("poll_id = ? AND voter = ?", pollID, voter).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return v.Choice, err
}

func (s *Service) tally(ctx context.Context, p *types.Poll) (PollResult, error) {
	var rows []struct {
		Choice string
		N      int64
	}
	err := s.db.WithContext(ctx).Model(&types.PollVote{}).
		Select("choice, COUNT(*) AS n").
		Where("poll_id = ?", p.ID).
		Group("choice").Scan(&rows).Error
	if err != nil {
		return PollResult{}, err
	}
	res := PollResult{PollID: p.ID, ProposalID: p.ProposalID, Status: p.Status}
	for _, r := range rows {
		switch r.Choice {
		case ChoiceYes:
			res.Yes = r.N
		case ChoiceNo:
			res.No = r.N
		}
	}
	total := res.Yes + res.No
	res.YesPercent = percent(res.Yes, total)
	res.NoPercent = percent(res.No, total)
	return res, nil
}
