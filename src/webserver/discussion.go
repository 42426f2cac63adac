package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/govtool/src/discussion"
	"github.com/stake-plus/govtool/src/types"
)

type Discussion struct{ svc *discussion.Service }

func NewDiscussion(svc *discussion.Service) Discussion { return Discussion{svc: svc} }

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "invalid id"})
		return 0, false
	}
	return id, true
}

func discussionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, discussion.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, discussion.ErrEmptyBody), errors.Is(err, discussion.ErrBodyTooLong),
		errors.Is(err, discussion.ErrInvalidTarget), errors.Is(err, discussion.ErrInvalidKind),
		errors.Is(err, discussion.ErrInvalidChoice):
		status = http.StatusBadRequest
	case errors.Is(err, discussion.ErrPollExists), errors.Is(err, discussion.ErrPollClosed):
		status = http.StatusConflict
	case errors.Is(err, discussion.ErrNotPollAuthor):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"err": err.Error()})
}

func (d Discussion) Comments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	threads, err := d.svc.Comments(c.Request.Context(), id, c.DefaultQuery("sort", discussion.SortDesc))
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": threads})
}

type bodyRequest struct {
	Body string `json:"body" binding:"required,min=1,max=10000"`
}

func (d Discussion) AddComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	comment, err := d.svc.AddComment(c.Request.Context(), id, c.GetString(ctxDRep), req.Body)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (d Discussion) Reply(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	comment, err := d.svc.Reply(c.Request.Context(), id, c.GetString(ctxDRep), req.Body)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

var reactionKinds = map[string]int8{
	"like":    discussion.ReactionLike,
	"dislike": discussion.ReactionDislike,
	"none":    discussion.ReactionNone,
}

func (d Discussion) React(c *gin.Context) {
	var req struct {
		Target   string `json:"target" binding:"required,oneof=proposal comment"`
		TargetID uint64 `json:"targetId" binding:"required"`
		Kind     string `json:"kind" binding:"required,oneof=like dislike none"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	counts, err := d.svc.React(c.Request.Context(), req.Target, req.TargetID, c.GetString(ctxDRep), reactionKinds[req.Kind])
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (d Discussion) ProposalReactions(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	counts, err := d.svc.Reactions(c.Request.Context(), types.TargetProposal, id)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

type pollView struct {
	discussion.PollResult
	YesLabel string `json:"yesLabel"`
	NoLabel  string `json:"noLabel"`
	MyVote   string `json:"myVote,omitempty"`
}

func (d Discussion) pollView(c *gin.Context, res discussion.PollResult) pollView {
	v := pollView{PollResult: res, YesLabel: res.Label(discussion.ChoiceYes), NoLabel: res.Label(discussion.ChoiceNo)}
	if voter := c.GetString(ctxDRep); voter != "" {
		v.MyVote, _ = d.svc.PollVote(c.Request.Context(), res.PollID, voter)
	}
	return v
}

func (d Discussion) CreatePoll(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	poll, err := d.svc.CreatePoll(c.Request.Context(), id, c.GetString(ctxDRep))
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

func (d Discussion) Poll(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := d.svc.Poll(c.Request.Context(), id)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.pollView(c, res))
}

func (d Discussion) VotePoll(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req struct {
		Choice string `json:"choice" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	res, err := d.svc.VotePoll(c.Request.Context(), id, c.GetString(ctxDRep), req.Choice)
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.pollView(c, res))
}

func (d Discussion) ClosePoll(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := d.svc.ClosePoll(c.Request.Context(), id, c.GetString(ctxDRep))
	if err != nil {
		discussionError(c, err)
		return
	}
	c.JSON(http.StatusOK, d.pollView(c, res))
}
