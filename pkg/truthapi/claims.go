package truthapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// ClaimDraft carries the caller-supplied fields of a new claim. Timestamp,
// public key and signature are filled in during submission.
type ClaimDraft struct {
	Text     string
	Type     string
	Evidence []string
	ParentID *string
	Semantic *signing.SemanticTriple
}

// claimRequest is the wire body for claim creation: the canonical payload
// fields followed by the signature over them.
type claimRequest struct {
	*signing.ClaimPayload
	Signature string `json:"signature"`
}

// CreateClaim signs and submits a new claim. Requires a key pair and an
// open session.
func (c *Client) CreateClaim(ctx context.Context, kp *signing.KeyPair, draft ClaimDraft) (*CreateClaimResult, error) {
	if kp == nil || kp.PrivateKeyPEM == "" {
		return nil, errs.Precondition("no key pair found, run 'veritas init' first")
	}
	if c.Token == "" {
		return nil, errs.Precondition("not logged in, run 'veritas login' first")
	}

	payload := signing.NewClaimPayload(
		draft.Text, draft.Evidence, kp.PublicKeyPEM, draft.Type,
		draft.ParentID, signing.NowMillis(), draft.Semantic,
	)
	canonical, err := payload.Canonical()
	if err != nil {
		return nil, err
	}
	sig, err := signing.Sign(canonical, kp.PrivateKeyPEM)
	if err != nil {
		return nil, err
	}

	var result CreateClaimResult
	req := claimRequest{ClaimPayload: payload, Signature: sig}
	if err := c.do(ctx, "POST", "/api/claim", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetClaim fetches a single claim by ID.
func (c *Client) GetClaim(ctx context.Context, id string) (*Claim, error) {
	var claim Claim
	if err := c.do(ctx, "GET", "/api/claim/"+url.PathEscape(id), nil, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// VerifyClaim asks the server for its verification report on a claim.
func (c *Client) VerifyClaim(ctx context.Context, id string) (*VerifyResult, error) {
	var result VerifyResult
	path := fmt.Sprintf("/api/claim/%s/verify", url.PathEscape(id))
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	if result.ClaimID == "" {
		result.ClaimID = id
	}
	return &result, nil
}

// ListClaimsOptions filters a claim listing. Zero values are omitted from
// the query string.
type ListClaimsOptions struct {
	Page      int
	Limit     int
	Type      string
	Subject   string
	Predicate string
	Object    string
	PublicKey string
	Verified  *bool
	Sort      string
}

// ListClaims fetches one page of claims.
func (c *Client) ListClaims(ctx context.Context, opts ListClaimsOptions) (*ClaimPage, error) {
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Type != "" {
		query.Set("type", opts.Type)
	}
	if opts.Subject != "" {
		query.Set("subject", opts.Subject)
	}
	if opts.Predicate != "" {
		query.Set("predicate", opts.Predicate)
	}
	if opts.Object != "" {
		query.Set("object", opts.Object)
	}
	if opts.PublicKey != "" {
		query.Set("publicKey", opts.PublicKey)
	}
	if opts.Verified != nil {
		query.Set("verified", strconv.FormatBool(*opts.Verified))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	path := "/api/claims"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page ClaimPage
	if err := c.do(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetClaims fetches several claims concurrently. Results come back in input
// order, each carrying its own error, so one missing claim does not fail
// the batch.
func (c *Client) GetClaims(ctx context.Context, ids []string) []ClaimResult {
	results := make([]ClaimResult, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			claim, err := c.GetClaim(ctx, id)
			results[i] = ClaimResult{ID: id, Claim: claim, Err: err}
		}(i, id)
	}
	wg.Wait()

	return results
}
