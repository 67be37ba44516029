package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Look up network participants",
}

var userInfoCmd = &cobra.Command{
	Use:   "info [public-key-pem]",
	Short: "Show a participant's network standing",
	Long: `Show the claims, proofs and credibility of a network participant.
Without an argument, the local identity is looked up.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		publicKey := ""
		if len(args) == 1 {
			publicKey = args[0]
		} else {
			if !cfg.HasKeyPair() {
				return errs.Precondition("no key pair found, pass a public key or run 'veritas init'")
			}
			publicKey = cfg.KeyPair.PublicKeyPEM
		}

		info, err := apiClient.UserInfo(cmd.Context(), publicKey)
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(info)
		}

		fmt.Printf("%s Participant\n", emoji("👤", "[user]"))
		fmt.Printf("   Claims: %d\n", info.ClaimCount)
		fmt.Printf("   Proofs: %d\n", info.ProofCount)
		fmt.Printf("   Credibility: %.2f\n", info.CredibilityScore)
		if !info.RegisteredAt.IsZero() {
			fmt.Printf("   Registered: %s\n", formatTime(info.RegisteredAt))
		}
		return nil
	},
}

var blockchainCmd = &cobra.Command{
	Use:   "blockchain",
	Short: "Inspect the ledger backing the network",
}

var blockchainStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show ledger statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := apiClient.BlockchainStats(cmd.Context())
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(stats)
		}

		fmt.Printf("%s Blockchain\n", emoji("⛓️", "[chain]"))
		fmt.Printf("   Blocks: %d\n", stats.Blocks)
		fmt.Printf("   Transactions: %d\n", stats.Transactions)
		fmt.Printf("   Pending: %d\n", stats.PendingTransactions)
		if !stats.LastBlockAt.IsZero() {
			fmt.Printf("   Last block: %s\n", formatTime(stats.LastBlockAt))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show network-wide activity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		stats, err := apiClient.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(stats)
		}

		fmt.Printf("%s Network\n", emoji("🌐", "[net]"))
		fmt.Printf("   Claims: %d (%d verified)\n", stats.Claims, stats.VerifiedClaims)
		fmt.Printf("   Proofs: %d\n", stats.Proofs)
		fmt.Printf("   Users: %d\n", stats.Users)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Ping the server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		status, err := apiClient.Health(cmd.Context())
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(map[string]any{
				"status":    status.Status,
				"version":   status.Version,
				"latencyMs": status.Latency.Milliseconds(),
			})
		}

		fmt.Printf("%s %s is %s (%dms)\n", emoji("✅", "[ok]"),
			apiClient.BaseURL, status.Status, status.Latency.Milliseconds())
		if status.Version != "" {
			fmt.Printf("   Server version: %s\n", status.Version)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userInfoCmd)

	rootCmd.AddCommand(blockchainCmd)
	blockchainCmd.AddCommand(blockchainStatsCmd)

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(healthCmd)
}
