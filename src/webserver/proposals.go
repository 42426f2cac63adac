package webserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/data"
	"github.com/stake-plus/govtool/src/proposals"
)

type Proposals struct {
	svc       *proposals.Service
	votes     VoteRecorder
	voterInfo proposals.VoterInfoProvider
	rdb       redis.Cmdable
	logger    *zap.Logger
}

func NewProposals(svc *proposals.Service, votes VoteRecorder, voterInfo proposals.VoterInfoProvider, rdb redis.Cmdable, logger *zap.Logger) Proposals {
	return Proposals{svc: svc, votes: votes, voterInfo: voterInfo, rdb: rdb, logger: logger}
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// identity resolves the caller's voter status and latest pending vote.
func (p Proposals) identity(ctx context.Context, drep string) (proposals.Identity, error) {
	id := proposals.Identity{DRepID: drep}
	if drep == "" {
		return id, nil
	}
	voter, err := p.voterInfo.VoterInfo(ctx, drep)
	if err != nil {
		return id, err
	}
	id.Voter = voter
	pending, err := data.PendingVote(ctx, p.rdb, drep)
	if err != nil && !errors.Is(err, data.ErrNoPending) {
		return id, err
	}
	id.PendingVoteTx = pending
	return id, nil
}

// List returns grouped proposals. Without a filters parameter every type
// is requested.
func (p Proposals) List(c *gin.Context) {
	filters := splitCSV(c.Query("filters"))
	if _, given := c.GetQuery("filters"); !given {
		filters = proposals.AllTypes
	}
	q := proposals.Query{
		Filters:      filters,
		SearchPhrase: c.Query("search"),
		Sorting:      c.DefaultQuery("sort", proposals.SortSoonestToExpire),
	}

	ctx := c.Request.Context()
	id, err := p.identity(ctx, c.GetString(ctxDRep))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	groups, err := p.svc.Grouped(ctx, id, q)
	if err != nil {
		p.logger.Warn("proposal query failed", zap.Strings("filters", q.Filters), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	if groups == nil {
		groups = []proposals.Group{}
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

func (p Proposals) Votes(c *gin.Context) {
	ctx := c.Request.Context()
	id, err := p.identity(ctx, c.GetString(ctxDRep))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	votes, err := p.svc.Votes(ctx, id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	type card struct {
		proposals.VotedProposal
		GovActionID     string `json:"govActionId"`
		TypeLabel       string `json:"typeLabel"`
		TypeTestID      string `json:"typeTestId"`
		CreatedDisplay  string `json:"createdDisplay"`
		ExpiryDisplay   string `json:"expiryDisplay"`
		VoteDateDisplay string `json:"voteDateDisplay"`
	}
	out := make([]card, 0, len(votes))
	for _, v := range votes {
		out = append(out, card{
			VotedProposal:   v,
			GovActionID:     v.Proposal.ID(),
			TypeLabel:       proposals.TypeLabel(v.Proposal.Type),
			TypeTestID:      proposals.TypeNoEmptySpaces(v.Proposal.Type),
			CreatedDisplay:  proposals.FormatDisplayDate(v.Proposal.CreatedDate),
			ExpiryDisplay:   proposals.FormatDisplayDate(v.Proposal.ExpiryDate),
			VoteDateDisplay: proposals.FormatDisplayDate(v.Vote.Date),
		})
	}
	c.JSON(http.StatusOK, gin.H{"votes": out})
}

func (p Proposals) VoterInfo(c *gin.Context) {
	info, err := p.voterInfo.VoterInfo(c.Request.Context(), c.GetString(ctxDRep))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

// Cast records a submitted vote transaction. The new pending hash changes
// the caller's query key so the next listing is refetched.
func (p Proposals) Cast(c *gin.Context) {
	var req struct {
		GovActionID string `json:"govActionId" binding:"required"`
		Vote        string `json:"vote" binding:"required,oneof=yes no abstain"`
		TxHash      string `json:"txHash" binding:"required,max=64"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	ctx := c.Request.Context()
	drep := c.GetString(ctxDRep)
	if err := p.votes.RecordVote(ctx, drep, req.GovActionID, req.Vote, req.TxHash); err != nil {
		if errors.Is(err, proposals.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"err": "proposal not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := data.SetPendingVote(ctx, p.rdb, drep, req.TxHash); err != nil {
		p.logger.Warn("store pending vote", zap.Error(err))
	}
	c.Status(http.StatusCreated)
}
