package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
	"github.com/veritasnet/veritas-cli/pkg/truthapi"
	"github.com/veritasnet/veritas-cli/pkg/validate"
)

var (
	claimText      string
	claimType      string
	claimEvidence  []string
	claimParent    string
	claimSubject   string
	claimPredicate string
	claimObject    string

	listPage      int
	listLimit     int
	listType      string
	listSubject   string
	listPredicate string
	listObject    string
	listMine      bool
	listVerified  bool
	listSort      string
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Publish and read claims",
}

var claimCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Sign and publish a new claim",
	Long: `Sign and publish a new claim to the truth network.

A claim is free text, optionally annotated with a semantic triple
(subject/predicate/object) so it participates in semantic search, evidence
links, and a parent claim it responds to. The claim is signed with the
local private key; the server verifies the signature before accepting it.

Without --text, the claim is collected interactively.`,
	Example: `  # Fully specified on the command line
  veritas claim create --text "water boils at 100C at sea level" \
      --subject water --predicate boils_at --object 100C \
      --evidence https://example.org/thermo.pdf

  # Interactive collection
  veritas claim create

  # Respond to an existing claim
  veritas claim create --text "only at standard pressure" --parent clm_8f2a`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		draft, err := collectClaimDraft()
		if err != nil {
			return err
		}

		result, err := apiClient.CreateClaim(cmd.Context(), cfg.KeyPair, *draft)
		if err != nil {
			return err
		}

		if getOutputFormat() == "json" {
			return printJSON(result)
		}

		fmt.Printf("%s Claim published\n", emoji("✅", "[ok]"))
		fmt.Printf("   ID: %s\n", result.ID)
		if result.BlockchainStatus != "" {
			fmt.Printf("   Blockchain: %s\n", result.BlockchainStatus)
		}
		if len(result.Conflicts) > 0 {
			fmt.Fprintf(os.Stderr, "⚠️  Conflicts with %d existing claim(s):\n", len(result.Conflicts))
			for _, conflict := range result.Conflicts {
				fmt.Fprintf(os.Stderr, "   %s  %s\n", shortID(conflict.ID), truncate(conflict.Claim, 60))
			}
		}
		return nil
	},
}

var claimGetCmd = &cobra.Command{
	Use:   "get <id> [id...]",
	Short: "Fetch one or more claims by ID",
	Long: `Fetch claims by ID. Multiple IDs are fetched concurrently; a claim
that cannot be fetched is reported without failing the rest.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			claim, err := apiClient.GetClaim(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if getOutputFormat() == "json" {
				return printJSON(claim)
			}
			printClaimDetail(claim)
			return nil
		}

		results := apiClient.GetClaims(cmd.Context(), args)

		if getOutputFormat() == "json" {
			type entry struct {
				ID    string          `json:"id"`
				Claim *truthapi.Claim `json:"claim,omitempty"`
				Error string          `json:"error,omitempty"`
			}
			entries := make([]entry, 0, len(results))
			for _, r := range results {
				e := entry{ID: r.ID, Claim: r.Claim}
				if r.Err != nil {
					e.Error = r.Err.Error()
					e.Claim = nil
				}
				entries = append(entries, e)
			}
			return printJSON(entries)
		}

		failures := 0
		for _, r := range results {
			if r.Err != nil {
				failures++
				fmt.Fprintf(os.Stderr, "❌ %s: %v\n", r.ID, r.Err)
				continue
			}
			printClaimDetail(r.Claim)
			fmt.Println()
		}
		if failures == len(results) {
			return errs.Precondition("none of the %d claims could be fetched", len(results))
		}
		return nil
	},
}

var claimListCmd = &cobra.Command{
	Use:   "list",
	Short: "List claims with filters",
	Example: `  # Latest verified claims
  veritas claim list --verified --sort createdAt

  # Everything the network claims about "water"
  veritas claim list --subject water

  # Your own claims as CSV
  veritas claim list --mine --output csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := truthapi.ListClaimsOptions{
			Page:      listPage,
			Limit:     listLimit,
			Type:      listType,
			Subject:   listSubject,
			Predicate: listPredicate,
			Object:    listObject,
			Sort:      listSort,
		}
		if listMine {
			if !cfg.HasKeyPair() {
				return errs.Precondition("no key pair found, --mine needs a local identity")
			}
			opts.PublicKey = cfg.KeyPair.PublicKeyPEM
		}
		if cmd.Flags().Changed("verified") {
			opts.Verified = &listVerified
		}

		page, err := apiClient.ListClaims(cmd.Context(), opts)
		if err != nil {
			return err
		}

		if err := renderClaims(page.Claims, page); err != nil {
			return err
		}
		if getOutputFormat() == "table" {
			fmt.Printf("\nTotal: %d claims (page %d)\n", page.Total, page.Page)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(claimCmd)
	claimCmd.AddCommand(claimCreateCmd)
	claimCmd.AddCommand(claimGetCmd)
	claimCmd.AddCommand(claimListCmd)

	claimCreateCmd.Flags().StringVar(&claimText, "text", "", "claim text (interactive prompt when omitted)")
	claimCreateCmd.Flags().StringVar(&claimType, "type", "statement", "claim type")
	claimCreateCmd.Flags().StringSliceVar(&claimEvidence, "evidence", nil, "evidence URL (repeatable)")
	claimCreateCmd.Flags().StringVar(&claimParent, "parent", "", "ID of the claim this one responds to")
	claimCreateCmd.Flags().StringVar(&claimSubject, "subject", "", "semantic triple subject")
	claimCreateCmd.Flags().StringVar(&claimPredicate, "predicate", "", "semantic triple predicate")
	claimCreateCmd.Flags().StringVar(&claimObject, "object", "", "semantic triple object")

	claimListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page number")
	claimListCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "claims per page")
	claimListCmd.Flags().StringVar(&listType, "type", "", "filter by claim type")
	claimListCmd.Flags().StringVar(&listSubject, "subject", "", "filter by semantic subject")
	claimListCmd.Flags().StringVar(&listPredicate, "predicate", "", "filter by semantic predicate")
	claimListCmd.Flags().StringVar(&listObject, "object", "", "filter by semantic object")
	claimListCmd.Flags().BoolVar(&listMine, "mine", false, "only claims signed by the local key")
	claimListCmd.Flags().BoolVar(&listVerified, "verified", false, "filter by verification status")
	claimListCmd.Flags().StringVar(&listSort, "sort", "", "sort order (e.g. createdAt, credibility)")
}

// collectClaimDraft assembles a claim from flags, falling back to the
// interactive prompt when no text was given. All validation happens here,
// before anything is signed or sent.
func collectClaimDraft() (*truthapi.ClaimDraft, error) {
	if !cfg.HasKeyPair() {
		return nil, errs.Precondition("no key pair found, run 'veritas init' first")
	}
	if !cfg.HasSession() {
		return nil, errs.Precondition("not logged in, run 'veritas login' first")
	}

	draft := &truthapi.ClaimDraft{
		Text:     strings.TrimSpace(claimText),
		Type:     claimType,
		Evidence: claimEvidence,
	}
	if claimParent != "" {
		parent := claimParent
		draft.ParentID = &parent
	}
	if claimSubject != "" || claimPredicate != "" || claimObject != "" {
		draft.Semantic = &signing.SemanticTriple{
			Subject:   claimSubject,
			Predicate: claimPredicate,
			Object:    claimObject,
		}
	}

	if draft.Text == "" {
		collected, err := promptClaim()
		if err != nil {
			return nil, err
		}
		collected.Type = draft.Type
		if len(draft.Evidence) > 0 {
			collected.Evidence = draft.Evidence
		}
		if draft.ParentID != nil {
			collected.ParentID = draft.ParentID
		}
		if draft.Semantic != nil {
			collected.Semantic = draft.Semantic
		}
		draft = collected
	}

	if err := validate.ClaimText(draft.Text); err != nil {
		return nil, err
	}
	if err := validate.ClaimType(draft.Type); err != nil {
		return nil, err
	}
	if err := validate.Evidence(draft.Evidence); err != nil {
		return nil, err
	}
	if draft.Semantic != nil {
		if err := validate.Triple(draft.Semantic.Subject, draft.Semantic.Predicate, draft.Semantic.Object); err != nil {
			return nil, err
		}
	}
	return draft, nil
}
