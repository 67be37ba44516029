package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
	"github.com/veritasnet/veritas-cli/pkg/truthapi"
)

var verifyLocal bool

var verifyCmd = &cobra.Command{
	Use:   "verify <claim-id>",
	Short: "Check a claim's verification status",
	Long: `Ask the server for its verification report on a claim: credibility,
confirmations and disputes, blockchain anchoring, and known conflicts.

With --local, the claim's signature is additionally re-checked on this
machine. The canonical payload is rebuilt from the claim record and
verified against the author's public key, so a tampered record fails even
if the server says otherwise.`,
	Example: `  veritas verify clm_8f2a
  veritas verify clm_8f2a --local`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		result, err := apiClient.VerifyClaim(cmd.Context(), id)
		if err != nil {
			return err
		}

		var localErr error
		localChecked := false
		if verifyLocal {
			localChecked = true
			localErr = verifyClaimLocally(cmd, id)
		}

		if getOutputFormat() == "json" {
			out := map[string]any{"server": result}
			if localChecked {
				out["localSignatureValid"] = localErr == nil
				if localErr != nil {
					out["localSignatureError"] = localErr.Error()
				}
			}
			return printJSON(out)
		}

		fmt.Printf("%s Claim %s\n", statusEmoji(result.Verified), result.ClaimID)
		fmt.Printf("   Verified: %s\n", yesNo(result.Verified))
		fmt.Printf("   Credibility: %.2f (%d confirmations, %d disputes)\n",
			result.Credibility.Score, result.Credibility.Confirmations, result.Credibility.Disputes)
		if result.BlockchainStatus != "" {
			fmt.Printf("   Blockchain: %s\n", result.BlockchainStatus)
		}
		for _, conflict := range result.Conflicts {
			fmt.Printf("   Conflict: %s  %s\n", shortID(conflict.ID), truncate(conflict.Claim, 60))
		}

		if localChecked {
			if localErr != nil {
				fmt.Printf("%s Local signature check failed: %v\n", emoji("❌", "[fail]"), localErr)
				return errs.Precondition("claim record does not match its signature")
			}
			fmt.Printf("%s Local signature check passed\n", emoji("✅", "[ok]"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVar(&verifyLocal, "local", false, "also re-verify the claim signature locally")
}

// verifyClaimLocally rebuilds the canonical payload from the claim record
// and checks the stored signature against the author's key.
func verifyClaimLocally(cmd *cobra.Command, id string) error {
	claim, err := apiClient.GetClaim(cmd.Context(), id)
	if err != nil {
		return err
	}
	return verifyClaimRecord(claim)
}

func verifyClaimRecord(claim *truthapi.Claim) error {
	if claim.Signature == "" || claim.Timestamp == 0 {
		return fmt.Errorf("claim record carries no signature to verify")
	}

	canonical, err := signing.NewClaimPayload(
		claim.Claim, claim.Evidence, claim.PublicKey, claim.Type,
		claim.ParentID, claim.Timestamp, claim.Semantic,
	).Canonical()
	if err != nil {
		return err
	}
	return signing.Verify(canonical, claim.Signature, claim.PublicKey)
}
