package cardano

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor"
)

// Conway certificate tags.
const (
	certRegDRep    = 16
	certUpdateDRep = 18

	credentialKeyHash = 0

	// MaxAnchorURL is the ledger limit for anchor URLs.
	MaxAnchorURL   = 128
	anchorHashSize = 32
)

// Certificate kinds.
const (
	KindDRepRegistration = "drep_registration"
	KindDRepUpdate       = "drep_update"
)

var (
	ErrURLTooLong  = errors.New("anchor url longer than 128 bytes")
	ErrEmptyURL    = errors.New("anchor url is empty")
	ErrAnchorHash  = errors.New("anchor hash must be 32 bytes of hex")
	ErrZeroDeposit = errors.New("drep deposit must be positive")
)

// Certificate is a CBOR encoded Conway certificate.
type Certificate struct {
	Kind string
	CBOR []byte
}

func (c *Certificate) Hex() string { return hex.EncodeToString(c.CBOR) }

// CertBuilder builds DRep certificates for a single credential.
type CertBuilder struct {
	keyHash KeyHash
	deposit uint64
}

func NewCertBuilder(keyHash KeyHash, deposit uint64) *CertBuilder {
	return &CertBuilder{keyHash: keyHash, deposit: deposit}
}

func (b *CertBuilder) KeyHash() KeyHash { return b.keyHash }

// BuildDRepRegCert encodes reg_drep_cert = [16, credential, coin, anchor].
func (b *CertBuilder) BuildDRepRegCert(url, hash string) (*Certificate, error) {
	if b.deposit == 0 {
		return nil, ErrZeroDeposit
	}
	a, err := anchor(url, hash)
	if err != nil {
		return nil, err
	}
	return b.encode(KindDRepRegistration, []interface{}{uint64(certRegDRep), b.credential(), b.deposit, a})
}

// BuildDRepUpdateCert encodes update_drep_cert = [18, credential, anchor].
func (b *CertBuilder) BuildDRepUpdateCert(url, hash string) (*Certificate, error) {
	a, err := anchor(url, hash)
	if err != nil {
		return nil, err
	}
	return b.encode(KindDRepUpdate, []interface{}{uint64(certUpdateDRep), b.credential(), a})
}

func (b *CertBuilder) credential() []interface{} {
	return []interface{}{uint64(credentialKeyHash), b.keyHash[:]}
}

func (b *CertBuilder) encode(kind string, v []interface{}) (*Certificate, error) {
	data, err := cbor.Marshal(v, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return &Certificate{Kind: kind, CBOR: data}, nil
}

func anchor(url, hash string) ([]interface{}, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if len(url) > MaxAnchorURL {
		return nil, ErrURLTooLong
	}
	raw, err := hex.DecodeString(hash)
	if err != nil || len(raw) != anchorHashSize {
		return nil, ErrAnchorHash
	}
	return []interface{}{url, raw}, nil
}
