package truthapi

import (
	"context"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// ProofDraft carries the caller-supplied fields of a new proof.
type ProofDraft struct {
	ClaimID    string
	Action     string
	Reason     string
	Confidence float64
}

// proofRequest is the wire body for proof submission: the canonical payload
// fields followed by the signature over them.
type proofRequest struct {
	*signing.ProofPayload
	Signature string `json:"signature"`
}

// AddProof signs and submits an attestation on an existing claim. Requires
// a key pair and an open session.
func (c *Client) AddProof(ctx context.Context, kp *signing.KeyPair, draft ProofDraft) (*ProofResult, error) {
	if kp == nil || kp.PrivateKeyPEM == "" {
		return nil, errs.Precondition("no key pair found, run 'veritas init' first")
	}
	if c.Token == "" {
		return nil, errs.Precondition("not logged in, run 'veritas login' first")
	}

	payload := signing.NewProofPayload(
		draft.ClaimID, draft.Action, kp.PublicKeyPEM,
		signing.NowMillis(), draft.Reason, draft.Confidence,
	)
	canonical, err := payload.Canonical()
	if err != nil {
		return nil, err
	}
	sig, err := signing.Sign(canonical, kp.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	var result ProofResult
	req := proofRequest{ProofPayload: payload, Signature: sig}
	if err := c.do(ctx, "POST", "/api/proof", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
