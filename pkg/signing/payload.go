package signing

import (
	"encoding/json"
	"fmt"
	"time"
)

// Proof actions accepted by the network.
const (
	ProofConfirm    = "confirm"
	ProofDispute    = "dispute"
	ProofInvalidate = "invalidate"
)

// SemanticTriple is the optional subject/predicate/object annotation on a
// claim. Claims carrying a triple participate in semantic search.
type SemanticTriple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// AuthPayload is the canonical body signed for register and login.
// Field order matches the server-side verifier. Do not reorder.
type AuthPayload struct {
	Action    string `json:"action"`
	PublicKey string `json:"publicKey"`
	Timestamp int64  `json:"timestamp"`
}

// ClaimPayload is the canonical body signed for claim creation. parent_id
// and semantic serialize as null when absent; evidence is always an array,
// never null. Field order matches the server-side verifier. Do not reorder.
type ClaimPayload struct {
	Claim     string          `json:"claim"`
	Evidence  []string        `json:"evidence"`
	PublicKey string          `json:"publicKey"`
	Type      string          `json:"type"`
	ParentID  *string         `json:"parent_id"`
	Timestamp int64           `json:"timestamp"`
	Semantic  *SemanticTriple `json:"semantic"`
}

// ProofPayload is the canonical body signed for proof submission.
// Field order matches the server-side verifier. Do not reorder.
type ProofPayload struct {
	ClaimID    string  `json:"claimId"`
	Action     string  `json:"action"`
	PublicKey  string  `json:"publicKey"`
	Timestamp  int64   `json:"timestamp"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

// NewAuthPayload builds the register/login payload. action must be
// "register" or "login"; ts is a Unix millisecond timestamp.
func NewAuthPayload(action, publicKeyPEM string, ts int64) *AuthPayload {
	return &AuthPayload{
		Action:    action,
		PublicKey: publicKeyPEM,
		Timestamp: ts,
	}
}

// NewClaimPayload builds the claim creation payload. A nil evidence slice
// is normalized to an empty array so the canonical form is stable.
func NewClaimPayload(claim string, evidence []string, publicKeyPEM, claimType string, parentID *string, ts int64, semantic *SemanticTriple) *ClaimPayload {
	if evidence == nil {
		evidence = []string{}
	}
	return &ClaimPayload{
		Claim:     claim,
		Evidence:  evidence,
		PublicKey: publicKeyPEM,
		Type:      claimType,
		ParentID:  parentID,
		Timestamp: ts,
		Semantic:  semantic,
	}
}

// NewProofPayload builds the proof submission payload.
func NewProofPayload(claimID, action, publicKeyPEM string, ts int64, reason string, confidence float64) *ProofPayload {
	return &ProofPayload{
		ClaimID:    claimID,
		Action:     action,
		PublicKey:  publicKeyPEM,
		Timestamp:  ts,
		Reason:     reason,
		Confidence: confidence,
	}
}

// NowMillis returns the current Unix timestamp in milliseconds, the unit
// every payload timestamp uses.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Canonical returns the exact byte sequence to sign.
func (p *AuthPayload) Canonical() ([]byte, error) { return canonical(p) }

// Canonical returns the exact byte sequence to sign.
func (p *ClaimPayload) Canonical() ([]byte, error) { return canonical(p) }

// Canonical returns the exact byte sequence to sign.
func (p *ProofPayload) Canonical() ([]byte, error) { return canonical(p) }

// canonical marshals a payload struct. encoding/json emits struct fields in
// declaration order with no insignificant whitespace, which is exactly the
// canonical form the server verifies against.
func canonical(v any) ([]byte, error) {
	bytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("building canonical payload: %w", err)
	}
	return bytes, nil
}
