package discussion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stake-plus/govtool/src/types"
)

const maxBody = 10000

// Comment orderings.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Reaction kinds. ReactionNone withdraws a reaction.
const (
	ReactionNone    int8 = 0
	ReactionLike    int8 = 1
	ReactionDislike int8 = -1
)

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyBody     = errors.New("comment body is empty")
	ErrBodyTooLong   = errors.New("comment body is too long")
	ErrInvalidTarget = errors.New("invalid reaction target")
	ErrInvalidKind   = errors.New("invalid reaction")
)

// Thread is a top level comment with its replies and reaction counts.
type Thread struct {
	types.Comment
	Reactions Counts          `json:"reactions"`
	Replies   []types.Comment `json:"replies"`
}

// Counts are like and dislike totals of a target.
type Counts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}

// Service stores proposal discussions.
type Service struct {
	db        *gorm.DB
	sanitizer *bluemonday.Policy
}

func NewService(db *gorm.DB) *Service {
	// Strict policy plus basic markdown formatting.
	sanitizer := bluemonday.StrictPolicy()
	sanitizer.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	sanitizer.AllowElements("ul", "ol", "li")
	sanitizer.AllowAttrs("href").OnElements("a")
	sanitizer.RequireParseableURLs(true)
	sanitizer.AddTargetBlankToFullyQualifiedLinks(true)
	sanitizer.RequireNoFollowOnLinks(true)

	return &Service{db: db, sanitizer: sanitizer}
}

func (s *Service) cleanBody(body string) (string, error) {
	body = strings.TrimSpace(s.sanitizer.Sanitize(body))
	if body == "" || !utf8.ValidString(body) {
		return "", ErrEmptyBody
	}
	if len(body) > maxBody {
		return "", ErrBodyTooLong
	}
	return body, nil
}

func (s *Service) proposalExists(ctx context.Context, id uint64) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&types.Proposal{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("proposal %d: %w", id, ErrNotFound)
	}
	return nil
}

// AddComment adds a top level comment to a proposal.
func (s *Service) AddComment(ctx context.Context, proposalID uint64, author, body string) (*types.Comment, error) {
	body, err := s.cleanBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.proposalExists(ctx, proposalID); err != nil {
		return nil, err
	}
	c := &types.Comment{ProposalID: proposalID, Author: author, Body: body}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Reply answers a comment. Replies to replies attach to the thread root.
func (s *Service) Reply(ctx context.Context, parentID uint64, author, body string) (*types.Comment, error) {
	body, err := s.cleanBody(body)
	if err != nil {
		return nil, err
	}
	var parent types.Comment
	if err := s.db.WithContext(ctx).First(&parent, parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d: %w", parentID, ErrNotFound)
		}
		return nil, err
	}
	root := parent.ID
	if parent.ParentID != nil {
		root = *parent.ParentID
	}
	c := &types.Comment{ProposalID: parent.ProposalID, ParentID: &root, Author: author, Body: body}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Comments lists a proposal's threads ordered by creation date. Replies are
// always oldest first.
func (s *Service) Comments(ctx context.Context, proposalID uint64, sort string) ([]Thread, error) {
	order := "created_at ASC, id ASC"
	if strings.EqualFold(sort, SortDesc) {
		order = "created_at DESC, id DESC"
	}

	var roots []types.Comment
	if err := s.db.WithContext(ctx).
		Where("proposal_id = ? AND parent_id IS NULL", proposalID).
		Order(order).Find(&roots).Error; err != nil {
		return nil, err
	}
	var replies []types.Comment
	if err := s.db.WithContext(ctx).
		Where("proposal_id = ? AND parent_id IS NOT NULL", proposalID).
		Order("created_at ASC, id ASC").Find(&replies).Error; err != nil {
		return nil, err
	}

	byParent := make(map[uint64][]types.Comment)
	for _, r := range replies {
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}

	threads := make([]Thread, 0, len(roots))
	for _, c := range roots {
		counts, err := s.Reactions(ctx, types.TargetComment, c.ID)
		if err != nil {
			return nil, err
		}
		threads = append(threads, Thread{Comment: c, Reactions: counts, Replies: byParent[c.ID]})
	}
	return threads, nil
}

// React sets author's reaction on a proposal or comment and returns the new
// counts. One reaction per author; a new kind replaces the old one.
func (s *Service) React(ctx context.Context, target string, targetID uint64, author string, kind int8) (Counts, error) {
	if target != types.TargetProposal && target != types.TargetComment {
		return Counts{}, ErrInvalidTarget
	}
	db := s.db.WithContext(ctx)
	switch kind {
	case ReactionNone:
		err := db.Where("target_type = ? AND target_id = ? AND author = ?", target, targetID, author).
			Delete(&types.Reaction{}).Error
		if err != nil {
			return Counts{}, err
		}
	case ReactionLike, ReactionDislike:
		r := types.Reaction{TargetType: target, TargetID: targetID, Author: author, Kind: kind}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_type"}, {Name: "target_id"}, {Name: "author"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind"}),
		}).Create(&r).Error
		if err != nil {
			return Counts{}, err
		}
	default:
		return Counts{}, ErrInvalidKind
	}
	return s.Reactions(ctx, target, targetID)
}

// Reactions counts likes and dislikes of a target.
func (s *Service) Reactions(ctx context.Context, target string, targetID uint64) (Counts, error) {
	var rows []struct {
		Kind int8
		N    int64
	}
	err := s.db.WithContext(ctx).Model(&types.Reaction{}).
		Select("kind, COUNT(*) AS n").
		Where("target_type = ? AND target_id = ?", target, targetID).
		Group("kind").Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}
	var c Counts
	for _, r := range rows {
		switch r.Kind {
		case ReactionLike:
			c.Likes = r.N
		case ReactionDislike:
			c.Dislikes = r.N
		}
	}
	return c, nil
}
