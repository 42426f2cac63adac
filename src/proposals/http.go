package proposals

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/stake-plus/govtool/src/webclient"
)

// HTTPFetcher talks to the GovTool backend REST API.
type HTTPFetcher struct {
	client *webclient.Client
}

// NewHTTPFetcher returns a fetcher for the backend at baseURL.
func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: webclient.New(strings.TrimRight(baseURL, "/"), timeout, 3)}
}

func (f *HTTPFetcher) FetchProposals(ctx context.Context, req Request) (Page, error) {
	params := url.Values{}
	for _, filter := range req.Filters {
		params.Add("type", filter)
	}
	if req.SearchPhrase != "" {
		params.Set("search", req.SearchPhrase)
	}
	if req.Sorting != "" {
		params.Set("sort", req.Sorting)
	}
	if req.DRepID != "" {
		params.Set("drepId", req.DRepID)
	}

	var page Page
	if err := f.client.GetJSON(ctx, "/proposal/list?"+params.Encode(), &page); err != nil {
		return Page{}, err
	}
	if page.Elements == nil {
		page.Elements = []Proposal{}
	}
	return page, nil
}

func (f *HTTPFetcher) FetchVotes(ctx context.Context, dRepID string) ([]VotedProposal, error) {
	var votes []VotedProposal
	err := f.client.GetJSON(ctx, "/drep/getVotes?drepId="+url.QueryEscape(dRepID), &votes)
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (f *HTTPFetcher) VoterInfo(ctx context.Context, dRepID string) (VoterInfo, error) {
	var info VoterInfo
	err := f.client.GetJSON(ctx, "/drep/info?drepId="+url.QueryEscape(dRepID), &info)
	return info, err
}
