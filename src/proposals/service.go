package proposals

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrFetch wraps any per-filter failure; the aggregate has no partial result.
var ErrFetch = errors.New("proposals: fetch failed")

// Fetcher is a proposal source.
type Fetcher interface {
	FetchProposals(ctx context.Context, req Request) (Page, error)
	FetchVotes(ctx context.Context, dRepID string) ([]VotedProposal, error)
}

// VoterInfoProvider reports an identity's registration status.
type VoterInfoProvider interface {
	VoterInfo(ctx context.Context, dRepID string) (VoterInfo, error)
}

// Service fans a Query out to a Fetcher and groups the result.
type Service struct {
	fetcher Fetcher
	cache   Cache
	logger  *zap.Logger
}

// NewService returns a Service. cache may be nil.
func NewService(fetcher Fetcher, cache Cache, logger *zap.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{fetcher: fetcher, cache: cache, logger: logger}
}

// Fetch issues one request per filter concurrently and flattens the pages in
// filter order. Proposals matching several filters appear once per filter.
func (s *Service) Fetch(ctx context.Context, id Identity, q Query) ([]Proposal, error) {
	if len(q.Filters) == 0 {
		return []Proposal{}, nil
	}

	key := QueryKey(id, q)
	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("proposal cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	dRepID := requestDRepID(id)
	pages := make([][]Proposal, len(q.Filters))

	eg, egCtx := errgroup.WithContext(ctx)
	for i, filter := range q.Filters {
		eg.Go(func() error {
			page, err := s.fetcher.FetchProposals(egCtx, Request{
				DRepID:       dRepID,
				Filters:      []string{filter},
				SearchPhrase: q.SearchPhrase,
				Sorting:      q.Sorting,
			})
			if err != nil {
				return fmt.Errorf("%w: filter %q: %w", ErrFetch, filter, err)
			}
			pages[i] = page.Elements
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := []Proposal{}
	for _, page := range pages {
		out = append(out, page...)
	}

	if err := s.cache.Set(ctx, key, out); err != nil {
		s.logger.Warn("proposal cache write failed", zap.String("key", key), zap.Error(err))
	}
	s.logger.Debug("proposals fetched",
		zap.Strings("filters", q.Filters),
		zap.Bool("scoped", dRepID != ""),
		zap.Int("count", len(out)))
	return out, nil
}

// Grouped is Fetch followed by GroupByType.
func (s *Service) Grouped(ctx context.Context, id Identity, q Query) ([]Group, error) {
	items, err := s.Fetch(ctx, id, q)
	if err != nil {
		return nil, err
	}
	return GroupByType(items), nil
}

// Votes returns the identity's voted proposals.
func (s *Service) Votes(ctx context.Context, id Identity) ([]VotedProposal, error) {
	if id.DRepID == "" {
		return []VotedProposal{}, nil
	}
	votes, err := s.fetcher.FetchVotes(ctx, id.DRepID)
	if err != nil {
		return nil, fmt.Errorf("%w: votes: %w", ErrFetch, err)
	}
	return votes, nil
}

// requestDRepID scopes requests to the identity only when it can vote.
func requestDRepID(id Identity) string {
	if id.Voter.IsRegisteredAsDRep || id.Voter.IsRegisteredAsSoleVoter {
		return id.DRepID
	}
	return ""
}
