package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/truthapi"
	"github.com/veritasnet/veritas-cli/pkg/validate"
)

var (
	proofAction     string
	proofReason     string
	proofConfidence float64
)

var proofCmd = &cobra.Command{
	Use:   "proof",
	Short: "Attest to existing claims",
}

var proofAddCmd = &cobra.Command{
	Use:   "add <claim-id>",
	Short: "Sign and publish a proof on a claim",
	Long: `Attach a signed attestation to an existing claim.

A proof confirms, disputes or invalidates a claim, with a free-text reason
and a confidence in [0,1]. Proofs feed the server-side credibility score;
the updated score comes back in the response.`,
	Example: `  # Confirm a claim you checked yourself
  veritas proof add clm_8f2a --action confirm --confidence 0.9 \
      --reason "matches the primary source"

  # Dispute with low confidence
  veritas proof add clm_8f2a --action dispute --confidence 0.4 \
      --reason "sample size looks too small"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.HasKeyPair() {
			return errs.Precondition("no key pair found, run 'veritas init' first")
		}
		if !cfg.HasSession() {
			return errs.Precondition("not logged in, run 'veritas login' first")
		}
		if err := validate.ProofAction(proofAction); err != nil {
			return err
		}
		if err := validate.Confidence(proofConfidence); err != nil {
			return err
		}

		result, err := apiClient.AddProof(cmd.Context(), cfg.KeyPair, truthapi.ProofDraft{
			ClaimID:    args[0],
			Action:     proofAction,
			Reason:     proofReason,
			Confidence: proofConfidence,
		})
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(result)
		}

		fmt.Printf("%s Proof recorded on %s\n", emoji("✅", "[ok]"), result.ClaimID)
		fmt.Printf("   Credibility: %.2f (%d confirmations, %d disputes)\n",
			result.Credibility.Score, result.Credibility.Confirmations, result.Credibility.Disputes)
		if result.BlockchainStatus != "" {
			fmt.Printf("   Blockchain: %s\n", result.BlockchainStatus)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.AddCommand(proofAddCmd)

	proofAddCmd.Flags().StringVar(&proofAction, "action", "", "confirm, dispute or invalidate (required)")
	proofAddCmd.Flags().StringVar(&proofReason, "reason", "", "why you are attesting")
	proofAddCmd.Flags().Float64Var(&proofConfidence, "confidence", 0.5, "confidence in [0,1]")
	_ = proofAddCmd.MarkFlagRequired("action")
}
