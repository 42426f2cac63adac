package proposals

import (
	"context"
	"errors"
	"sync"
)

// ErrStale is returned by LiveQuery.Refresh when a newer refresh started
// before this one finished. The stale result is discarded.
var ErrStale = errors.New("proposals: stale result discarded")

// Snapshot is the published state of a LiveQuery.
type Snapshot struct {
	Groups     []Group
	Err        error
	Loading    bool
	Generation uint64
}

// LiveQuery keeps the latest grouped result of a changing query. Each
// Refresh takes a new generation; only the newest generation may publish.
type LiveQuery struct {
	svc *Service

	mu        sync.Mutex
	latest    uint64
	published Snapshot
}

func NewLiveQuery(svc *Service) *LiveQuery {
	return &LiveQuery{svc: svc}
}

// Refresh fetches q for id and publishes the result unless superseded.
func (l *LiveQuery) Refresh(ctx context.Context, id Identity, q Query) ([]Group, error) {
	l.mu.Lock()
	l.latest++
	gen := l.latest
	l.published.Loading = true
	l.mu.Unlock()

	groups, err := l.svc.Grouped(ctx, id, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.latest {
		return nil, ErrStale
	}
	l.published = Snapshot{Groups: groups, Err: err, Generation: gen}
	return groups, err
}

// Snapshot returns the last published state.
func (l *LiveQuery) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.published
}
