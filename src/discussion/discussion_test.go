package discussion

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stake-plus/govtool/src/types"
)

func newService(t *testing.T) (*Service, uint64) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "discussion.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(types.AllModels...))

	p := types.Proposal{TxHash: "aa", Index: 0, Type: "InfoAction", ExpiryDate: time.Now()}
	require.NoError(t, db.Create(&p).Error)
	return NewService(db), p.ID
}

func TestCommentsSortedAndReplies(t *testing.T) {
	ctx := context.Background()
	s, pid := newService(t)

	var ids []uint64
	for _, body := range []string{"first", "second", "third", "fourth"} {
		c, err := s.AddComment(ctx, pid, "alice", body)
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	reply, err := s.Reply(ctx, ids[0], "bob", "a reply")
	require.NoError(t, err)
	nested, err := s.Reply(ctx, reply.ID, "carol", "reply to reply")
	require.NoError(t, err)
	assert.Equal(t, ids[0], *nested.ParentID)

	asc, err := s.Comments(ctx, pid, SortAsc)
	require.NoError(t, err)
	require.Len(t, asc, 4)
	for i := 1; i < len(asc); i++ {
		assert.False(t, asc[i].CreatedAt.Before(asc[i-1].CreatedAt))
	}
	assert.Equal(t, "first", asc[0].Body)
	require.Len(t, asc[0].Replies, 2)
	assert.Equal(t, "a reply", asc[0].Replies[0].Body)

	desc, err := s.Comments(ctx, pid, SortDesc)
	require.NoError(t, err)
	require.Len(t, desc, 4)
	assert.Equal(t, "fourth", desc[0].Body)
	assert.Equal(t, "first", desc[3].Body)
}

func TestCommentValidation(t *testing.T) {
	ctx := context.Background()
	s, pid := newService(t)

	_, err := s.AddComment(ctx, pid, "alice", "<script>alert(1)</script>")
	assert.ErrorIs(t, err, ErrEmptyBody)

	c, err := s.AddComment(ctx, pid, "alice", "<strong>hi</strong><img src=x onerror=y>")
	require.NoError(t, err)
	assert.Equal(t, "<strong>hi</strong>", c.Body)

	_, err = s.AddComment(ctx, pid+100, "alice", "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Reply(ctx, 999, "alice", "hi")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactions(t *testing.T) {
	ctx := context.Background()
	s, pid := newService(t)

	counts, err := s.React(ctx, types.TargetProposal, pid, "alice", ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, Counts{Likes: 1}, counts)

	counts, err = s.React(ctx, types.TargetProposal, pid, "bob", ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, Counts{Likes: 1, Dislikes: 1}, counts)

	// Switching replaces the earlier reaction.
	counts, err = s.React(ctx, types.TargetProposal, pid, "alice", ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, Counts{Dislikes: 2}, counts)

	counts, err = s.React(ctx, types.TargetProposal, pid, "alice", ReactionNone)
	require.NoError(t, err)
	assert.Equal(t, Counts{Dislikes: 1}, counts)

	_, err = s.React(ctx, "user", pid, "alice", ReactionLike)
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = s.React(ctx, types.TargetProposal, pid, "alice", 5)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestPollVoteAndChange(t *testing.T) {
	ctx := context.Background()
	s, pid := newService(t)

	p, err := s.CreatePoll(ctx, pid, "owner")
	require.NoError(t, err)
	_, err = s.CreatePoll(ctx, pid, "owner")
	assert.ErrorIs(t, err, ErrPollExists)

	res, err := s.VotePoll(ctx, p.ID, "alice", "Yes")
	require.NoError(t, err)
	assert.Equal(t, "Yes: (100%)", res.Label(ChoiceYes))
	assert.Equal(t, "No: (0%)", res.Label(ChoiceNo))

	res, err = s.VotePoll(ctx, p.ID, "alice", ChoiceNo)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Yes)
	assert.EqualValues(t, 1, res.No)
	assert.Equal(t, "No: (100%)", res.Label(ChoiceNo))

	res, err = s.VotePoll(ctx, p.ID, "bob", ChoiceYes)
	require.NoError(t, err)
	res, err = s.VotePoll(ctx, p.ID, "carol", ChoiceYes)
	require.NoError(t, err)
	assert.Equal(t, 67, res.YesPercent)
	assert.Equal(t, 33, res.NoPercent)

	choice, err := s.PollVote(ctx, p.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, ChoiceNo, choice)

	_, err = s.VotePoll(ctx, p.ID, "alice", "maybe")
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestClosePollDisablesVoting(t *testing.T) {
	ctx := context.Background()
	s, pid := newService(t)

	p, err := s.CreatePoll(ctx, pid, "owner")
	require.NoError(t, err)
	_, err = s.VotePoll(ctx, p.ID, "alice", ChoiceYes)
	require.NoError(t, err)

	_, err = s.ClosePoll(ctx, p.ID, "alice")
	assert.ErrorIs(t, err, ErrNotPollAuthor)

	res, err := s.ClosePoll(ctx, p.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, types.PollClosed, res.Status)
	assert.EqualValues(t, 1, res.Yes)

	_, err = s.VotePoll(ctx, p.ID, "bob", ChoiceNo)
	assert.ErrorIs(t, err, ErrPollClosed)

	// A closed poll makes room for a new one.
	_, err = s.CreatePoll(ctx, pid, "owner")
	assert.NoError(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, percent(0, 0))
	assert.Equal(t, 50, percent(1, 2))
	assert.Equal(t, 33, percent(1, 3))
	assert.Equal(t, 67, percent(2, 3))
}
