package proposals

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

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "govtool.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(types.AllModels...))
	return NewStore(db)
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, item := range []Proposal{
		{Type: TypeInfoAction, TxHash: "aa", Index: 0, Title: "Fund our project", CreatedDate: base, ExpiryDate: base.AddDate(0, 1, 0)},
		{Type: TypeInfoAction, TxHash: "bb", Index: 1, Title: "Constitution draft", CreatedDate: base.AddDate(0, 0, 1), ExpiryDate: base.AddDate(0, 0, 10)},
		{Type: TypeTreasuryWithdrawals, TxHash: "cc", Index: 0, Title: "Treasury ask", CreatedDate: base.AddDate(0, 0, 2), ExpiryDate: base.AddDate(0, 2, 0)},
	} {
		item.CreatedEpochNo = uint64(400 + i)
		require.NoError(t, s.Upsert(context.Background(), item))
	}
}

func TestStoreFetchByFilterAndSort(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	page, err := s.FetchProposals(ctx, Request{Filters: []string{TypeInfoAction}, Sorting: SortSoonestToExpire})
	require.NoError(t, err)
	require.Len(t, page.Elements, 2)
	assert.Equal(t, "bb", page.Elements[0].TxHash)
	assert.Equal(t, "aa", page.Elements[1].TxHash)

	page, err = s.FetchProposals(ctx, Request{Filters: []string{TypeInfoAction, TypeTreasuryWithdrawals}, Sorting: SortNewestCreated})
	require.NoError(t, err)
	require.Len(t, page.Elements, 3)
	assert.Equal(t, "cc", page.Elements[0].TxHash)
}

func TestStoreSearch(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)

	page, err := s.FetchProposals(context.Background(), Request{Filters: []string{TypeInfoAction}, SearchPhrase: "CONSTITUTION"})
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, "Constitution draft", page.Elements[0].Title)
}

func TestStoreExcludesVotedForDRep(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.RecordVote(ctx, "drep1abc", "aa#0", VoteYes, "tx1"))

	page, err := s.FetchProposals(ctx, Request{Filters: []string{TypeInfoAction}, DRepID: "drep1abc"})
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, "bb", page.Elements[0].TxHash)

	page, err = s.FetchProposals(ctx, Request{Filters: []string{TypeInfoAction}})
	require.NoError(t, err)
	assert.Len(t, page.Elements, 2)
}

func TestStoreVotes(t *testing.T) {
	s := newTestStore(t)
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.RecordVote(ctx, "drep1abc", "aa#0", VoteYes, "tx1"))
	require.NoError(t, s.RecordVote(ctx, "drep1abc", "aa#0", VoteAbstain, "tx2"))

	votes, err := s.FetchVotes(ctx, "drep1abc")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "aa#0", votes[0].Vote.ProposalID)
	assert.Equal(t, VoteAbstain, votes[0].Vote.Vote)
	assert.Equal(t, "tx2", votes[0].Vote.TxHash)
	assert.Equal(t, "Fund our project", votes[0].Proposal.Title)

	assert.ErrorIs(t, s.RecordVote(ctx, "drep1abc", "zz#0", VoteYes, "tx"), ErrNotFound)
	assert.Error(t, s.RecordVote(ctx, "drep1abc", "aa#0", "maybe", "tx"))
}
