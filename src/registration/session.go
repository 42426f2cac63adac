package registration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/cardano"
	"github.com/stake-plus/govtool/src/metadata"
	"github.com/stake-plus/govtool/src/txsubmit"
	"github.com/stake-plus/govtool/src/types"
)

// State is a step of the registration flow.
type State string

const (
	StateIdle               State = "idle"
	StateGeneratingMetadata State = "generating-metadata"
	StateDownloading        State = "downloading"
	StateHashComputed       State = "hash-computed"
	StateValidatingHash     State = "validating-hash"
	StateBuildingCert       State = "building-cert"
	StateSigningSubmitting  State = "signing-submitting"
	StateSuccess            State = "success"
	StateFailed             State = "failed"
)

// Result is the outcome of RegisterAsDRep.
type Result struct {
	State    State  `json:"state"`
	TxHash   string `json:"txHash,omitempty"`
	CertKind string `json:"certKind,omitempty"`
}

// Session is the registration flow of one DRep credential.
type Session struct {
	deps      Deps
	keyHash   cardano.KeyHash
	presenter Presenter
	logger    *zap.Logger

	loading atomic.Bool

	mu          sync.Mutex
	state       State
	doc         *metadata.Document
	fingerprint uint64
}

func (s *Session) KeyHash() cardano.KeyHash { return s.keyHash }

// IsLoading is true while RegisterAsDRep runs.
func (s *Session) IsLoading() bool { return s.loading.Load() }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Hash returns the last computed metadata hash, or "" when none was
// computed or the values changed since.
func (s *Session) Hash(values RegisterAsDRepValues) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.fingerprint != values.fingerprint() {
		return ""
	}
	return s.doc.Hash
}

// GenerateMetadata builds the document for values and remembers its hash.
func (s *Session) GenerateMetadata(values RegisterAsDRepValues) (*metadata.Document, error) {
	if err := values.Validate(); err != nil {
		return nil, err
	}
	s.setState(StateGeneratingMetadata)
	doc, err := s.deps.Generator.Generate(values.Profile())
	if err != nil {
		s.setState(StateFailed)
		return nil, fmt.Errorf("generate metadata: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.fingerprint = values.fingerprint()
	s.state = StateHashComputed
	s.mu.Unlock()
	return doc, nil
}

// OnClickDownloadJSON generates the document and writes it to w. It returns
// the file name the document should be saved under.
func (s *Session) OnClickDownloadJSON(w io.Writer, values RegisterAsDRepValues) (string, error) {
	doc, err := s.GenerateMetadata(values)
	if err != nil {
		return "", err
	}
	s.setState(StateDownloading)
	defer s.setState(StateHashComputed)
	if err := metadata.Download(w, doc.JSONLD); err != nil {
		return "", err
	}
	return metadata.FileName(values.DRepName), nil
}

// ValidateHash checks the document at storingURL against hash. Recognised
// failures open a status modal; the error is returned either way.
func (s *Session) ValidateHash(ctx context.Context, storingURL, hash string) error {
	var err error
	if hash == "" {
		err = &metadata.ValidationError{Kind: metadata.InvalidHash, Err: ErrNoHash}
	} else {
		err = s.deps.Validator.Validate(ctx, storingURL, hash)
	}
	if err == nil {
		return nil
	}
	if kind, ok := metadata.KindOf(err); ok {
		if m, ok := ErrorModal(kind); ok {
			s.presenter.OpenModal(m)
		}
	}
	return err
}

// CreateCert builds an update certificate for sole voters and a
// registration certificate otherwise, anchored at the storing URL and the
// session hash.
func (s *Session) CreateCert(ctx context.Context, values RegisterAsDRepValues) (*cardano.Certificate, error) {
	hash := s.Hash(values)
	if hash == "" {
		return nil, ErrNoHash
	}
	voter, err := s.deps.VoterInfo.VoterInfo(ctx, s.keyHash.DRepID())
	if err != nil {
		return nil, fmt.Errorf("voter info: %w", err)
	}

	b := cardano.NewCertBuilder(s.keyHash, s.deps.Deposit)
	if voter.IsRegisteredAsSoleVoter {
		return b.BuildDRepUpdateCert(values.StoringURL, hash)
	}
	return b.BuildDRepRegCert(values.StoringURL, hash)
}

// RegisterAsDRep validates the hosted metadata, then builds, signs and
// submits the certificate. Only one call runs at a time per session.
// Failures are reported and logged but not retried.
func (s *Session) RegisterAsDRep(ctx context.Context, values RegisterAsDRepValues) (*Result, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return nil, ErrRegistrationInProgress
	}
	defer s.loading.Store(false)

	res, err := s.register(ctx, values)
	if err != nil {
		s.deps.Tracker.CaptureException(err)
		s.logger.Error("drep registration failed", zap.Error(err))
		s.setState(StateFailed)
		return &Result{State: StateFailed}, err
	}
	s.setState(StateSuccess)
	s.presenter.OpenModal(SuccessModal())
	return res, nil
}

func (s *Session) register(ctx context.Context, values RegisterAsDRepValues) (*Result, error) {
	if err := values.Validate(); err != nil {
		return nil, err
	}
	hash := s.Hash(values)

	if !s.deps.SkipHashValidation {
		s.setState(StateValidatingHash)
		if err := s.ValidateHash(ctx, values.StoringURL, hash); err != nil {
			return nil, err
		}
	}

	s.setState(StateBuildingCert)
	cert, err := s.CreateCert(ctx, values)
	if err != nil {
		return nil, err
	}

	s.setState(StateSigningSubmitting)
	txHash, err := s.deps.Submitter.BuildSignSubmitConwayCertTx(ctx, txsubmit.Request{
		Certificate: cert,
		Type:        txsubmit.TypeRegisterAsDRep,
		Signer:      s.keyHash.DRepID(),
	})
	if err != nil {
		return nil, err
	}

	reg := types.DRepRegistration{
		DRepID:       s.keyHash.DRepID(),
		Kind:         types.RegistrationDRep,
		Name:         values.Profile().DRepName,
		MetadataURL:  values.StoringURL,
		MetadataHash: hash,
		TxHash:       txHash,
		Active:       true,
	}
	if s.deps.Repository != nil {
		if err := s.deps.Repository.Save(ctx, &reg); err != nil {
			// The transaction is already on its way; keep the success.
			s.logger.Warn("save registration", zap.String("tx", txHash), zap.Error(err))
		}
	}
	if s.deps.Announcer != nil {
		if err := s.deps.Announcer.AnnounceRegistration(ctx, reg); err != nil {
			s.logger.Warn("announce registration", zap.String("tx", txHash), zap.Error(err))
		}
	}

	s.logger.Info("drep registration submitted", zap.String("tx", txHash), zap.String("cert", cert.Kind))
	return &Result{State: StateSuccess, TxHash: txHash, CertKind: cert.Kind}, nil
}
