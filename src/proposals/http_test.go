package proposals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/proposal/list":
			assert.Equal(t, []string{TypeInfoAction}, r.URL.Query()["type"])
			assert.Equal(t, "fund", r.URL.Query().Get("search"))
			assert.Equal(t, SortNewestCreated, r.URL.Query().Get("sort"))
			assert.Equal(t, "drep1xyz", r.URL.Query().Get("drepId"))
			_, _ = w.Write([]byte(`{"elements":[{"type":"InfoAction","txHash":"aa","index":2,"title":"Fund"}],"page":0,"pageSize":10,"total":1}`))
		case "/drep/info":
			assert.Equal(t, "drep1xyz", r.URL.Query().Get("drepId"))
			_, _ = w.Write([]byte(`{"isRegisteredAsDRep":false,"isRegisteredAsSoleVoter":true}`))
		case "/drep/getVotes":
			_, _ = w.Write([]byte(`[{"proposal":{"type":"InfoAction","txHash":"aa","index":2},"vote":{"proposalId":"aa#2","drepId":"drep1xyz","vote":"no"}}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", time.Second)
	ctx := context.Background()

	page, err := f.FetchProposals(ctx, Request{DRepID: "drep1xyz", Filters: []string{TypeInfoAction}, SearchPhrase: "fund", Sorting: SortNewestCreated})
	require.NoError(t, err)
	require.Len(t, page.Elements, 1)
	assert.Equal(t, "aa#2", page.Elements[0].ID())

	info, err := f.VoterInfo(ctx, "drep1xyz")
	require.NoError(t, err)
	assert.True(t, info.IsRegisteredAsSoleVoter)

	votes, err := f.FetchVotes(ctx, "drep1xyz")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, VoteNo, votes[0].Vote.Vote)
}
