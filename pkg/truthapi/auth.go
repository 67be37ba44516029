package truthapi

import (
	"context"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// authRequest is the wire body for register and login. The server
// reconstructs the canonical auth payload from these fields plus the
// action implied by the endpoint, and verifies the signature against it.
type authRequest struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
}

// Register announces a new public key to the network and opens a session.
func (c *Client) Register(ctx context.Context, kp *signing.KeyPair) (*AuthResult, error) {
	return c.authenticate(ctx, "register", "/api/auth/register", kp)
}

// Login opens a session for an already registered key.
func (c *Client) Login(ctx context.Context, kp *signing.KeyPair) (*AuthResult, error) {
	return c.authenticate(ctx, "login", "/api/auth/login", kp)
}

func (c *Client) authenticate(ctx context.Context, action, path string, kp *signing.KeyPair) (*AuthResult, error) {
	if kp == nil || kp.PublicKeyPEM == "" || kp.PrivateKeyPEM == "" {
		return nil, errs.Precondition("no key pair found, run 'veritas init' first")
	}

	ts := signing.NowMillis()
	canonical, err := signing.NewAuthPayload(action, kp.PublicKeyPEM, ts).Canonical()
	if err != nil {
		return nil, err
	}
	sig, err := signing.Sign(canonical, kp.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	var result AuthResult
	req := authRequest{PublicKey: kp.PublicKeyPEM, Signature: sig, Timestamp: ts}
	if err := c.do(ctx, "POST", path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
