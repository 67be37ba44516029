package truthapi

import (
	"time"

	"github.com/veritasnet/veritas-cli/pkg/signing"
)

// User is the server-side account bound to a public key.
type User struct {
	ID        string    `json:"id,omitempty"`
	PublicKey string    `json:"publicKey"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Claim is a server-side assertion record. Credibility, verification and
// blockchain status are computed entirely server-side; the client only
// renders them. Timestamp and Signature echo the submitted canonical
// payload, so anyone can re-verify a claim without trusting the server.
type Claim struct {
	ID               string                  `json:"id"`
	Claim            string                  `json:"claim"`
	Type             string                  `json:"type"`
	PublicKey        string                  `json:"publicKey"`
	Evidence         []string                `json:"evidence"`
	ParentID         *string                 `json:"parent_id,omitempty"`
	Semantic         *signing.SemanticTriple `json:"semantic,omitempty"`
	Timestamp        int64                   `json:"timestamp,omitempty"`
	Signature        string                  `json:"signature,omitempty"`
	CredibilityScore float64                 `json:"credibilityScore"`
	Confirmations    int                     `json:"confirmations"`
	Disputes         int                     `json:"disputes"`
	Verified         bool                    `json:"verified"`
	BlockchainStatus string                  `json:"blockchainStatus,omitempty"`
	CreatedAt        time.Time               `json:"createdAt,omitempty"`
	UpdatedAt        time.Time               `json:"updatedAt,omitempty"`
}

// CreateClaimResult is returned by claim submission. Conflicts lists
// existing claims the server found contradicting the new one.
type CreateClaimResult struct {
	ID               string  `json:"id"`
	BlockchainStatus string  `json:"blockchainStatus"`
	Conflicts        []Claim `json:"conflicts,omitempty"`
}

// Credibility is the server-computed trust aggregate for a claim.
type Credibility struct {
	Score         float64 `json:"score"`
	Confirmations int     `json:"confirmations"`
	Disputes      int     `json:"disputes"`
}

// ProofResult is returned by proof submission.
type ProofResult struct {
	ClaimID          string      `json:"claimId"`
	BlockchainStatus string      `json:"blockchainStatus"`
	Credibility      Credibility `json:"credibility"`
}

// VerifyResult is the server's verification report for a single claim.
type VerifyResult struct {
	ClaimID          string      `json:"claimId"`
	Verified         bool        `json:"verified"`
	Credibility      Credibility `json:"credibility"`
	BlockchainStatus string      `json:"blockchainStatus,omitempty"`
	Conflicts        []Claim     `json:"conflicts,omitempty"`
}

// ClaimPage is one page of a claim listing.
type ClaimPage struct {
	Claims []Claim `json:"claims"`
	Total  int     `json:"total"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

// SearchResult is returned by free-text search.
type SearchResult struct {
	Query   string  `json:"query,omitempty"`
	Results []Claim `json:"results"`
	Total   int     `json:"total"`
}

// SemanticResult lists the claims matching a subject/predicate pair.
type SemanticResult struct {
	Subject   string  `json:"subject"`
	Predicate string  `json:"predicate"`
	Claims    []Claim `json:"claims"`
}

// UserInfo is the public profile for a registered key.
type UserInfo struct {
	PublicKey        string    `json:"publicKey"`
	ClaimCount       int       `json:"claimCount"`
	ProofCount       int       `json:"proofCount"`
	CredibilityScore float64   `json:"credibilityScore"`
	RegisteredAt     time.Time `json:"registeredAt,omitempty"`
}

// BlockchainStats describes the ledger backing the network.
type BlockchainStats struct {
	Blocks              int64     `json:"blocks"`
	Transactions        int64     `json:"transactions"`
	PendingTransactions int       `json:"pendingTransactions"`
	LastBlockAt         time.Time `json:"lastBlockAt,omitempty"`
}

// NetworkStats describes overall network activity.
type NetworkStats struct {
	Claims         int64 `json:"claims"`
	VerifiedClaims int64 `json:"verifiedClaims"`
	Proofs         int64 `json:"proofs"`
	Users          int64 `json:"users"`
}

// HealthStatus is the server's health report plus the measured round-trip
// latency, which is filled in client-side.
type HealthStatus struct {
	Status  string        `json:"status"`
	Version string        `json:"version,omitempty"`
	Latency time.Duration `json:"-"`
}

// ClaimResult pairs a requested claim ID with its outcome in a batch
// lookup. A failed lookup carries its own error without affecting the
// other entries.
type ClaimResult struct {
	ID    string
	Claim *Claim
	Err   error
}
