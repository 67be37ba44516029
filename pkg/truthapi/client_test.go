package truthapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

func testKeyPair(t *testing.T) *signing.KeyPair {
	t.Helper()
	kp, err := signing.GenerateKeyPair()
	require.NoError(t, err)
	return kp
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestRegisterSendsVerifiableSignature(t *testing.T) {
	kp := testKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))

		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err, "X-Request-ID must be a UUID")

		var body struct {
			PublicKey string `json:"publicKey"`
			Signature string `json:"signature"`
			Timestamp int64  `json:"timestamp"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, kp.PublicKeyPEM, body.PublicKey)

		// The server rebuilds the canonical payload from the endpoint's
		// action and the body fields, then checks the signature.
		canonical, err := signing.NewAuthPayload("register", body.PublicKey, body.Timestamp).Canonical()
		require.NoError(t, err)
		require.NoError(t, signing.Verify(canonical, body.Signature, body.PublicKey))

		writeJSON(t, w, http.StatusOK, AuthResult{
			Token: "tok-abc",
			User:  User{ID: "u1", PublicKey: body.PublicKey},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Register(context.Background(), kp)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", result.Token)
	assert.Equal(t, "u1", result.User.ID)
}

func TestLoginUsesLoginActionInCanonicalPayload(t *testing.T) {
	kp := testKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body struct {
			PublicKey string `json:"publicKey"`
			Signature string `json:"signature"`
			Timestamp int64  `json:"timestamp"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		// A signature over the "register" action must not pass here.
		registerCanonical, err := signing.NewAuthPayload("register", body.PublicKey, body.Timestamp).Canonical()
		require.NoError(t, err)
		assert.Error(t, signing.Verify(registerCanonical, body.Signature, body.PublicKey))

		loginCanonical, err := signing.NewAuthPayload("login", body.PublicKey, body.Timestamp).Canonical()
		require.NoError(t, err)
		require.NoError(t, signing.Verify(loginCanonical, body.Signature, body.PublicKey))

		writeJSON(t, w, http.StatusOK, AuthResult{Token: "tok-login"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Login(context.Background(), kp)
	require.NoError(t, err)
	assert.Equal(t, "tok-login", result.Token)
}

func TestAuthWithoutKeyPairFailsBeforeAnyRequest(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	_, err := client.Register(context.Background(), nil)
	assert.True(t, errors.Is(err, errs.ErrPrecondition))

	_, err = client.Login(context.Background(), &signing.KeyPair{PublicKeyPEM: "pub"})
	assert.True(t, errors.Is(err, errs.ErrPrecondition))

	assert.Equal(t, int32(0), hits.Load(), "precondition failures must not reach the network")
}

func TestCreateClaimSignsCanonicalPayload(t *testing.T) {
	kp := testKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/api/claim", r.URL.Path)
		require.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))

		var body struct {
			Claim     string                  `json:"claim"`
			Evidence  []string                `json:"evidence"`
			PublicKey string                  `json:"publicKey"`
			Type      string                  `json:"type"`
			ParentID  *string                 `json:"parent_id"`
			Timestamp int64                   `json:"timestamp"`
			Semantic  *signing.SemanticTriple `json:"semantic"`
			Signature string                  `json:"signature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "water boils at 100C", body.Claim)
		assert.Equal(t, []string{"https://example.org/ev"}, body.Evidence)
		assert.Equal(t, "statement", body.Type)
		require.NotNil(t, body.Semantic)
		assert.Equal(t, "water", body.Semantic.Subject)

		canonical, err := signing.NewClaimPayload(
			body.Claim, body.Evidence, body.PublicKey, body.Type,
			body.ParentID, body.Timestamp, body.Semantic,
		).Canonical()
		require.NoError(t, err)
		require.NoError(t, signing.Verify(canonical, body.Signature, body.PublicKey))

		writeJSON(t, w, http.StatusCreated, CreateClaimResult{ID: "claim-1", BlockchainStatus: "pending"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok-abc")
	result, err := client.CreateClaim(context.Background(), kp, ClaimDraft{
		Text:     "water boils at 100C",
		Type:     "statement",
		Evidence: []string{"https://example.org/ev"},
		Semantic: &signing.SemanticTriple{Subject: "water", Predicate: "boils_at", Object: "100C"},
	})
	require.NoError(t, err)
	assert.Equal(t, "claim-1", result.ID)
	assert.Equal(t, "pending", result.BlockchainStatus)
}

func TestCreateClaimSendsEvidenceArrayNeverNull(t *testing.T) {
	kp := testKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		require.Contains(t, raw, "evidence")
		assert.Equal(t, "[]", string(raw["evidence"]))
		assert.Equal(t, "null", string(raw["parent_id"]))
		assert.Equal(t, "null", string(raw["semantic"]))

		writeJSON(t, w, http.StatusCreated, CreateClaimResult{ID: "claim-2"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	_, err := client.CreateClaim(context.Background(), kp, ClaimDraft{Text: "x", Type: "statement"})
	require.NoError(t, err)
}

func TestMutatingCallsRequireSession(t *testing.T) {
	kp := testKeyPair(t)

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	_, err := client.CreateClaim(context.Background(), kp, ClaimDraft{Text: "x", Type: "statement"})
	assert.True(t, errors.Is(err, errs.ErrPrecondition))

	_, err = client.AddProof(context.Background(), kp, ProofDraft{ClaimID: "c", Action: "confirm"})
	assert.True(t, errors.Is(err, errs.ErrPrecondition))

	assert.Equal(t, int32(0), hits.Load())
}

func TestAddProofSignsCanonicalPayload(t *testing.T) {
	kp := testKeyPair(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/proof", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body struct {
			ClaimID    string  `json:"claimId"`
			Action     string  `json:"action"`
			PublicKey  string  `json:"publicKey"`
			Timestamp  int64   `json:"timestamp"`
			Reason     string  `json:"reason"`
			Confidence float64 `json:"confidence"`
			Signature  string  `json:"signature"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		canonical, err := signing.NewProofPayload(
			body.ClaimID, body.Action, body.PublicKey,
			body.Timestamp, body.Reason, body.Confidence,
		).Canonical()
		require.NoError(t, err)
		require.NoError(t, signing.Verify(canonical, body.Signature, body.PublicKey))

		writeJSON(t, w, http.StatusCreated, ProofResult{
			ClaimID:          body.ClaimID,
			BlockchainStatus: "pending",
			Credibility:      Credibility{Score: 0.82, Confirmations: 3, Disputes: 1},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	result, err := client.AddProof(context.Background(), kp, ProofDraft{
		ClaimID:    "claim-9",
		Action:     "confirm",
		Reason:     "matches primary source",
		Confidence: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "claim-9", result.ClaimID)
	assert.InDelta(t, 0.82, result.Credibility.Score, 1e-9)
	assert.Equal(t, 3, result.Credibility.Confirmations)
}

func TestGetClaimNotFoundIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "claim not found"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.GetClaim(context.Background(), "missing")
	require.Error(t, err)

	assert.True(t, errors.Is(err, errs.ErrServer))
	apiErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "claim not found", apiErr.Message)
}

func TestServerErrorMessageFallsBackToBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream ledger unavailable"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Stats(context.Background())

	apiErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream ledger unavailable", apiErr.Message)
}

func TestUnreachableServerIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "")
	_, err := client.Health(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrTransport))
	assert.False(t, errors.Is(err, errs.ErrServer))
}

func TestMalformedSuccessBodyIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Stats(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrServer))
}

func TestListClaimsBuildsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/claims", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "statement", q.Get("type"))
		assert.Equal(t, "water", q.Get("subject"))
		assert.Equal(t, "true", q.Get("verified"))
		assert.Equal(t, "createdAt", q.Get("sort"))
		assert.Empty(t, q.Get("object"))

		writeJSON(t, w, http.StatusOK, ClaimPage{
			Claims: []Claim{{ID: "c1"}, {ID: "c2"}},
			Total:  41, Page: 2, Limit: 25,
		})
	}))
	defer srv.Close()

	verified := true
	client := NewClient(srv.URL, "")
	page, err := client.ListClaims(context.Background(), ListClaimsOptions{
		Page: 2, Limit: 25, Type: "statement", Subject: "water",
		Verified: &verified, Sort: "createdAt",
	})
	require.NoError(t, err)
	assert.Len(t, page.Claims, 2)
	assert.Equal(t, 41, page.Total)
}

func TestGetClaimsIsolatesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/claim/good-1":
			writeJSON(t, w, http.StatusOK, Claim{ID: "good-1", Claim: "first"})
		case "/api/claim/good-2":
			writeJSON(t, w, http.StatusOK, Claim{ID: "good-2", Claim: "second"})
		default:
			writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "claim not found"})
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	results := client.GetClaims(context.Background(), []string{"good-1", "missing", "good-2"})

	require.Len(t, results, 3)

	assert.Equal(t, "good-1", results[0].ID)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "first", results[0].Claim.Claim)

	assert.Equal(t, "missing", results[1].ID)
	assert.True(t, errors.Is(results[1].Err, errs.ErrServer))

	assert.Equal(t, "good-2", results[2].ID)
	require.NoError(t, results[2].Err)
	assert.Equal(t, "second", results[2].Claim.Claim)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/search", r.URL.Path)
		assert.Equal(t, "boiling point", r.URL.Query().Get("q"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))

		writeJSON(t, w, http.StatusOK, SearchResult{Results: []Claim{{ID: "c1"}}, Total: 1})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Search(context.Background(), "boiling point", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "boiling point", result.Query)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "")
	_, err := client.Search(context.Background(), "", 0)
	assert.True(t, errors.Is(err, errs.ErrPrecondition))
}

func TestSemanticEscapesPathSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/semantic/sea%20water/boils_at", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, SemanticResult{Claims: []Claim{{ID: "c1"}}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Semantic(context.Background(), "sea water", "boils_at")
	require.NoError(t, err)
	assert.Equal(t, "sea water", result.Subject)
	assert.Len(t, result.Claims, 1)
}

func TestHealthMeasuresLatency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok", "version": "1.4.2"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.4.2", status.Version)
	assert.Greater(t, status.Latency.Nanoseconds(), int64(0))
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, NetworkStats{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	_, err := client.Stats(context.Background())
	require.NoError(t, err)
}

func TestNewClientNormalizesBaseURL(t *testing.T) {
	client := NewClient("https://truth.example.org/", "tok")
	assert.Equal(t, "https://truth.example.org", client.BaseURL)

	defaulted := NewClient("", "")
	assert.NotEmpty(t, defaulted.BaseURL)
}
