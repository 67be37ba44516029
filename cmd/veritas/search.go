package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search claims by text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		result, err := apiClient.Search(cmd.Context(), query, searchLimit)
		if err != nil {
			return err
		}

		if err := renderClaims(result.Results, result); err != nil {
			return err
		}
		if getOutputFormat() == "table" {
			fmt.Printf("\nTotal: %d results\n", result.Total)
		}
		return nil
	},
}

var semanticCmd = &cobra.Command{
	Use:   "semantic <subject> <predicate>",
	Short: "List claims about a subject/predicate pair",
	Long: `List every claim asserting something about a subject/predicate pair,
e.g. all claims about what "water" "boils_at". Competing claims show up
side by side with their credibility scores.`,
	Example: `  veritas semantic water boils_at
  veritas semantic bitcoin invented_by --output json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := apiClient.Semantic(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		if err := renderClaims(result.Claims, result); err != nil {
			return err
		}
		if getOutputFormat() == "table" {
			fmt.Printf("\n%d claim(s) about %s %s\n", len(result.Claims), result.Subject, result.Predicate)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(semanticCmd)

	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 10, "maximum results")
}
