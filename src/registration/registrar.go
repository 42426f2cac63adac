package registration

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/cardano"
	"github.com/stake-plus/govtool/src/logging"
	"github.com/stake-plus/govtool/src/metadata"
	"github.com/stake-plus/govtool/src/proposals"
	"github.com/stake-plus/govtool/src/txsubmit"
	"github.com/stake-plus/govtool/src/types"
)

var (
	ErrRegistrationInProgress = errors.New("registration already in progress")
	ErrNoHash                 = errors.New("metadata hash has not been computed")
)

// HashValidator checks a hosted metadata document against a local hash.
type HashValidator interface {
	Validate(ctx context.Context, storingURL, hash string) error
}

// Repository persists registrations.
type Repository interface {
	Save(ctx context.Context, reg *types.DRepRegistration) error
}

// Announcer is told about successful registrations.
type Announcer interface {
	AnnounceRegistration(ctx context.Context, reg types.DRepRegistration) error
}

// Deps are the collaborators of a Registrar. Generator, Validator,
// Submitter and VoterInfo are required.
type Deps struct {
	Generator          *metadata.Generator
	Validator          HashValidator
	Submitter          txsubmit.Submitter
	VoterInfo          proposals.VoterInfoProvider
	Repository         Repository
	Announcer          Announcer
	Tracker            logging.Tracker
	Logger             *zap.Logger
	Deposit            uint64
	SkipHashValidation bool
}

// Registrar hands out one Session per DRep credential.
type Registrar struct {
	deps Deps

	mu       sync.Mutex
	sessions map[cardano.KeyHash]*entry
}

type entry struct {
	session  *Session
	recorder *Recorder
	lastUsed time.Time
}

func NewRegistrar(d Deps) *Registrar {
	if d.Tracker == nil {
		d.Tracker = logging.NopTracker{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Registrar{deps: d, sessions: make(map[cardano.KeyHash]*entry)}
}

// NewSession starts a session for kh that reports to p.
func (r *Registrar) NewSession(kh cardano.KeyHash, p Presenter) *Session {
	return &Session{
		deps:      r.deps,
		keyHash:   kh,
		presenter: p,
		logger:    r.deps.Logger.With(zap.String("drep", kh.DRepID())),
		state:     StateIdle,
	}
}

// Session returns the long-lived session for kh together with the Recorder
// it presents to, creating both on first use.
func (r *Registrar) Session(kh cardano.KeyHash) (*Session, *Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[kh]
	if !ok {
		rec := NewRecorder()
		e = &entry{session: r.NewSession(kh, rec), recorder: rec}
		r.sessions[kh] = e
	}
	e.lastUsed = time.Now()
	return e.session, e.recorder
}

// Prune drops sessions idle for longer than maxIdle and not loading.
func (r *Registrar) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	cutoff := time.Now().Add(-maxIdle)
	for kh, e := range r.sessions {
		if e.lastUsed.Before(cutoff) && !e.session.IsLoading() {
			delete(r.sessions, kh)
			n++
		}
	}
	return n
}
