package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the local key with the network",
	Long: `Announce the local public key to the truth network and open a session.

The request body carries the public key, a millisecond timestamp, and a
signature over the canonical registration payload, proving possession of
the private key. On success the returned session token is stored locally.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := registerAndStoreSession(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("%s Registered with %s\n", emoji("✅", "[ok]"), apiClient.BaseURL)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open a session for the registered key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.HasKeyPair() {
			return errs.Precondition("no key pair found, run 'veritas init' first")
		}

		result, err := apiClient.Login(cmd.Context(), cfg.KeyPair)
		if err != nil {
			return err
		}
		if err := store.SetSession(result.Token); err != nil {
			return err
		}

		fmt.Printf("%s Logged in to %s\n", emoji("✅", "[ok]"), apiClient.BaseURL)
		if expiry, ok := tokenExpiry(result.Token); ok {
			fmt.Printf("   Session valid until %s\n", expiry.Local().Format(time.RFC3339))
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session token",
	RunE: func(_ *cobra.Command, _ []string) error {
		if !cfg.HasSession() {
			fmt.Println("No active session")
			return nil
		}
		if err := store.ClearSession(); err != nil {
			return err
		}
		fmt.Printf("%s Logged out\n", emoji("✅", "[ok]"))
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the local identity and its network standing",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !cfg.HasKeyPair() {
			return errs.Precondition("no key pair found, run 'veritas init' first")
		}

		fp, err := cfg.KeyPair.Fingerprint()
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			profile := map[string]any{
				"server":      apiClient.BaseURL,
				"fingerprint": fp,
				"publicKey":   cfg.KeyPair.PublicKeyPEM,
				"session":     cfg.HasSession(),
			}
			if expiry, ok := tokenExpiry(cfg.Token); ok {
				profile["sessionExpiresAt"] = expiry
			}
			return printJSON(profile)
		}

		fmt.Printf("%s Identity\n", emoji("🪪", "[id]"))
		fmt.Printf("   Server: %s\n", apiClient.BaseURL)
		fmt.Printf("   Fingerprint: %s\n", fp)
		fmt.Printf("   Config: %s\n", store.Path())
		switch {
		case !cfg.HasSession():
			fmt.Println("   Session: none (run 'veritas login')")
		default:
			if expiry, ok := tokenExpiry(cfg.Token); ok {
				fmt.Printf("   Session: active, expires %s\n", expiry.Local().Format(time.RFC3339))
			} else {
				fmt.Println("   Session: active")
			}
		}

		// Network standing is best-effort: the local identity is still
		// useful when the server is unreachable.
		info, err := apiClient.UserInfo(cmd.Context(), cfg.KeyPair.PublicKeyPEM)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Could not fetch network standing: %v\n", err)
			return nil
		}
		fmt.Printf("   Claims: %d\n", info.ClaimCount)
		fmt.Printf("   Proofs: %d\n", info.ProofCount)
		fmt.Printf("   Credibility: %.2f\n", info.CredibilityScore)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(profileCmd)
}

func registerAndStoreSession(ctx context.Context) error {
	if !cfg.HasKeyPair() {
		return errs.Precondition("no key pair found, run 'veritas init' first")
	}

	result, err := apiClient.Register(ctx, cfg.KeyPair)
	if err != nil {
		return err
	}
	return store.SetSession(result.Token)
}

// tokenExpiry reads the exp claim out of a JWT session token without
// verifying it. The server remains the authority on validity; this only
// feeds the profile display.
func tokenExpiry(token string) (time.Time, bool) {
	jws, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{
		jose.RS256, jose.ES256, jose.EdDSA, jose.HS256,
	})
	if err != nil {
		return time.Time{}, false
	}

	var claims struct {
		Expiry int64 `json:"exp"`
	}
	if err := json.Unmarshal(jws.UnsafePayloadWithoutVerification(), &claims); err != nil {
		return time.Time{}, false
	}
	if claims.Expiry == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.Expiry, 0), true
}
