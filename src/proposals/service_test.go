package proposals

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string][]Proposal
	fail     map[string]error
	requests []Request
	votes    []VotedProposal
}

func (f *fakeFetcher) FetchProposals(_ context.Context, req Request) (Page, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if err := f.fail[req.Filters[0]]; err != nil {
		return Page{}, err
	}
	return Page{Elements: f.pages[req.Filters[0]]}, nil
}

func (f *fakeFetcher) FetchVotes(context.Context, string) ([]VotedProposal, error) {
	return f.votes, nil
}

func (f *fakeFetcher) calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

func TestGroupedScenario(t *testing.T) {
	f := &fakeFetcher{pages: map[string][]Proposal{
		"A": {p("T1", "a1", 0), p("T1", "a2", 0)},
		"B": {p("T1", "b1", 0), p("T2", "b2", 0)},
	}}
	svc := NewService(f, nil, zap.NewNop())

	groups, err := svc.Grouped(context.Background(), Identity{}, Query{Filters: []string{"A", "B"}})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "T1", groups[0].Title)
	assert.Len(t, groups[0].Actions, 3)
	assert.Equal(t, "T2", groups[1].Title)
	assert.Len(t, groups[1].Actions, 1)
}

func TestFetchFlattensInFilterOrderWithoutDedup(t *testing.T) {
	shared := p("T1", "s", 0)
	f := &fakeFetcher{pages: map[string][]Proposal{
		"A": {shared, p("T2", "a", 0)},
		"B": {p("T3", "b", 0), shared},
	}}
	svc := NewService(f, nil, zap.NewNop())

	items, err := svc.Fetch(context.Background(), Identity{}, Query{Filters: []string{"B", "A"}})
	require.NoError(t, err)
	assert.Equal(t, []Proposal{p("T3", "b", 0), shared, shared, p("T2", "a", 0)}, items)
	assert.Len(t, f.calls(), 2)
	for _, req := range f.calls() {
		assert.Len(t, req.Filters, 1)
	}
}

func TestFetchScopesDRepIDToRegisteredVoters(t *testing.T) {
	cases := []struct {
		name  string
		voter VoterInfo
		want  string
	}{
		{"anonymous", VoterInfo{}, ""},
		{"drep", VoterInfo{IsRegisteredAsDRep: true}, "drep1xyz"},
		{"sole voter", VoterInfo{IsRegisteredAsSoleVoter: true}, "drep1xyz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeFetcher{pages: map[string][]Proposal{}}
			svc := NewService(f, nil, zap.NewNop())
			_, err := svc.Fetch(context.Background(), Identity{DRepID: "drep1xyz", Voter: tc.voter}, Query{Filters: []string{"A"}})
			require.NoError(t, err)
			require.Len(t, f.calls(), 1)
			assert.Equal(t, tc.want, f.calls()[0].DRepID)
		})
	}
}

func TestFetchFailsWhole(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeFetcher{
		pages: map[string][]Proposal{"A": {p("T1", "a", 0)}},
		fail:  map[string]error{"B": boom},
	}
	svc := NewService(f, nil, zap.NewNop())

	items, err := svc.Fetch(context.Background(), Identity{}, Query{Filters: []string{"A", "B"}})
	assert.Nil(t, items)
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, boom)
}

func TestFetchNoFilters(t *testing.T) {
	f := &fakeFetcher{}
	svc := NewService(f, nil, zap.NewNop())
	items, err := svc.Fetch(context.Background(), Identity{}, Query{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Empty(t, f.calls())
}

func TestFetchUsesCacheUntilKeyChanges(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := &fakeFetcher{pages: map[string][]Proposal{"A": {p("T1", "a", 0)}}}
	svc := NewService(f, NewRedisCache(rdb, time.Minute), zap.NewNop())

	id := Identity{DRepID: "drep1xyz", Voter: VoterInfo{IsRegisteredAsDRep: true}}
	q := Query{Filters: []string{"A"}, Sorting: SortNewestCreated}

	first, err := svc.Fetch(context.Background(), id, q)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), id, q)
	require.NoError(t, err)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID(), second[0].ID())
	assert.Len(t, f.calls(), 1)

	id.PendingVoteTx = "deadbeef"
	_, err = svc.Fetch(context.Background(), id, q)
	require.NoError(t, err)
	assert.Len(t, f.calls(), 2)
}

func TestQueryKey(t *testing.T) {
	base := QueryKey(Identity{DRepID: "d"}, Query{Filters: []string{"A", "B"}})
	assert.Equal(t, base, QueryKey(Identity{DRepID: "d"}, Query{Filters: []string{"A", "B"}}))
	assert.NotEqual(t, base, QueryKey(Identity{DRepID: "d"}, Query{Filters: []string{"B", "A"}}))
	assert.NotEqual(t, base, QueryKey(Identity{DRepID: "e"}, Query{Filters: []string{"A", "B"}}))
	assert.NotEqual(t, base, QueryKey(Identity{DRepID: "d"}, Query{Filters: []string{"A", "B"}, SearchPhrase: "x"}))
	assert.NotEqual(t, base, QueryKey(Identity{DRepID: "d"}, Query{Filters: []string{"AB"}}))
}

func TestVotes(t *testing.T) {
	vp := VotedProposal{Proposal: p("T1", "a", 0), Vote: Vote{Vote: VoteYes}}
	svc := NewService(&fakeFetcher{votes: []VotedProposal{vp}}, nil, zap.NewNop())

	votes, err := svc.Votes(context.Background(), Identity{DRepID: "d"})
	require.NoError(t, err)
	assert.Equal(t, []VotedProposal{vp}, votes)

	votes, err = svc.Votes(context.Background(), Identity{})
	require.NoError(t, err)
	assert.Empty(t, votes)
}
