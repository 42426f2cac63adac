package metadata

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/piprate/json-gold/ld"
)

// Canonicalization algorithm names.
const (
	AlgorithmURDNA2015 = "urdna2015"
	AlgorithmJCS       = "jcs"
)

// ErrEmptyCanonical is returned when a document canonicalises to nothing.
var ErrEmptyCanonical = errors.New("metadata: document has no canonical form")

// Canonicalizer turns a JSON-LD document into deterministic bytes.
type Canonicalizer interface {
	Canonicalize(doc interface{}) ([]byte, error)
	Name() string
}

// NewCanonicalizer returns the canonicalizer for algorithm. client is used
// to resolve remote contexts and may be nil.
func NewCanonicalizer(algorithm string, client *http.Client) (Canonicalizer, error) {
	switch strings.ToLower(algorithm) {
	case "", AlgorithmURDNA2015:
		return NewURDNA2015(client), nil
	case AlgorithmJCS:
		return JCS{}, nil
	default:
		return nil, fmt.Errorf("unknown canonicalization %q", algorithm)
	}
}

// URDNA2015 canonicalises to N-Quads with json-gold.
type URDNA2015 struct {
	proc   *ld.JsonLdProcessor
	loader ld.DocumentLoader
}

func NewURDNA2015(client *http.Client) *URDNA2015 {
	if client == nil {
		client = http.DefaultClient
	}
	return &URDNA2015{
		proc:   ld.NewJsonLdProcessor(),
		loader: ld.NewCachingDocumentLoader(ld.NewDefaultDocumentLoader(client)),
	}
}

func (u *URDNA2015) Name() string { return AlgorithmURDNA2015 }

func (u *URDNA2015) Canonicalize(doc interface{}) ([]byte, error) {
	opts := u.options()
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"

	out, err := u.proc.Normalize(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	nquads, _ := out.(string)
	if nquads == "" {
		return nil, ErrEmptyCanonical
	}
	return []byte(nquads), nil
}

// Compact compacts doc against context.
func (u *URDNA2015) Compact(doc, context interface{}) (map[string]interface{}, error) {
	out, err := u.proc.Compact(doc, context, u.options())
	if err != nil {
		return nil, fmt.Errorf("compact: %w", err)
	}
	return out, nil
}

func (u *URDNA2015) options() *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions("")
	opts.DocumentLoader = u.loader
	return opts
}

// JCS canonicalises with RFC 8785 JSON canonicalization.
type JCS struct{}

func (JCS) Name() string { return AlgorithmJCS }

func (JCS) Canonicalize(doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("jcs: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyCanonical
	}
	return out, nil
}
