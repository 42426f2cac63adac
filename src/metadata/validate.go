package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/stake-plus/govtool/src/webclient"
)

// ValidationErrorKind classifies hash validation failures.
type ValidationErrorKind string

const (
	InvalidURL    ValidationErrorKind = "INVALID_URL"
	InvalidJSON   ValidationErrorKind = "INVALID_JSON"
	InvalidJSONLD ValidationErrorKind = "INVALID_JSONLD"
	InvalidHash   ValidationErrorKind = "INVALID_HASH"
	FetchError    ValidationErrorKind = "FETCH_ERROR"
)

// ValidationErrorKinds lists every kind.
var ValidationErrorKinds = []ValidationErrorKind{InvalidURL, InvalidJSON, InvalidJSONLD, InvalidHash, FetchError}

// ValidationError is returned by Validator.Validate.
type ValidationError struct {
	Kind ValidationErrorKind
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// KindOf returns the validation kind of err, if it is a ValidationError.
func KindOf(err error) (ValidationErrorKind, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind, true
	}
	return "", false
}

// Validator checks that the document hosted at a URL hashes to a given value.
type Validator struct {
	client *webclient.Client
	canon  Canonicalizer
	logger *zap.Logger
}

// NewValidator returns a validator using canon to hash fetched documents.
func NewValidator(canon Canonicalizer, timeout time.Duration, attempts int, logger *zap.Logger) *Validator {
	c := webclient.New("", timeout, attempts)
	return &Validator{client: c, canon: canon, logger: logger}
}

// Validate fetches storingURL and compares the hash of its canonical form
// with hash. Every failure is a *ValidationError.
func (v *Validator) Validate(ctx context.Context, storingURL, hash string) error {
	if hash == "" {
		return &ValidationError{Kind: InvalidHash, Err: errors.New("no local hash")}
	}
	u, err := url.Parse(storingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Kind: InvalidURL, Err: err}
	}

	raw, err := v.client.Get(ctx, u.String())
	if err != nil {
		return &ValidationError{Kind: FetchError, Err: err}
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ValidationError{Kind: InvalidJSON, Err: err}
	}

	canonical, err := v.canon.Canonicalize(doc)
	if err != nil {
		return &ValidationError{Kind: InvalidJSONLD, Err: err}
	}

	remote := Hash(canonical)
	if !HashEqual(hash, remote) {
		v.logger.Info("metadata hash mismatch",
			zap.String("url", storingURL), zap.String("expected", hash), zap.String("actual", remote))
		return &ValidationError{Kind: InvalidHash, Err: fmt.Errorf("expected %s, got %s", hash, remote)}
	}
	return nil
}
