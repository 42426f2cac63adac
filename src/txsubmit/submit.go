package txsubmit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stake-plus/govtool/src/cardano"
	"github.com/stake-plus/govtool/src/webclient"
)

// TypeRegisterAsDRep labels DRep registration and update transactions.
const TypeRegisterAsDRep = "registerAsDrep"

var ErrNoTxHash = errors.New("signing bridge returned no transaction hash")

// Request asks the wallet to wrap a certificate in a transaction, sign it
// and submit it.
type Request struct {
	Certificate *cardano.Certificate
	Type        string
	// Signer is the DRep id whose wallet must sign.
	Signer string
}

// Submitter builds, signs and submits Conway certificate transactions.
type Submitter interface {
	BuildSignSubmitConwayCertTx(ctx context.Context, req Request) (string, error)
}

// Bridge talks to a wallet signing bridge over HTTP.
type Bridge struct {
	client *webclient.Client
}

// NewBridge returns a Submitter for the bridge at baseURL. Submissions are
// not retried: a resent certificate may double-spend the deposit.
func NewBridge(baseURL string, timeout time.Duration) *Bridge {
	return &Bridge{client: webclient.New(baseURL, timeout, 1)}
}

type submitBody struct {
	Type   string `json:"type"`
	Kind   string `json:"certKind"`
	Cert   string `json:"cert"`
	Signer string `json:"signer,omitempty"`
}

type submitResponse struct {
	TxHash string `json:"txHash"`
}

func (b *Bridge) BuildSignSubmitConwayCertTx(ctx context.Context, req Request) (string, error) {
	if req.Certificate == nil {
		return "", errors.New("no certificate")
	}
	body := submitBody{
		Type:   req.Type,
		Kind:   req.Certificate.Kind,
		Cert:   req.Certificate.Hex(),
		Signer: req.Signer,
	}
	var out submitResponse
	if err := b.client.PostJSON(ctx, "/tx/conway-cert", body, &out); err != nil {
		return "", fmt.Errorf("submit %s: %w", req.Type, err)
	}
	if out.TxHash == "" {
		return "", ErrNoTxHash
	}
	return out.TxHash, nil
}
