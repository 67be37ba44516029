package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/veritasnet/veritas-cli/pkg/truthapi"
)

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// claimsTable renders claims in aligned columns.
func claimsTable(w io.Writer, claims []truthapi.Claim) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCLAIM\tTYPE\tSCORE\tVERIFIED\tCREATED\n")
	for _, c := range claims {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			shortID(c.ID),
			truncate(c.Claim, 50),
			c.Type,
			c.CredibilityScore,
			yesNo(c.Verified),
			formatTime(c.CreatedAt),
		)
	}
	tw.Flush()
}

// claimsCSV renders claims as CSV with a header row.
func claimsCSV(w io.Writer, claims []truthapi.Claim) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{"ID", "Claim", "Type", "PublicKey", "Score", "Confirmations", "Disputes", "Verified", "Created"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range claims {
		row := []string{
			c.ID,
			c.Claim,
			c.Type,
			c.PublicKey,
			fmt.Sprintf("%.2f", c.CredibilityScore),
			fmt.Sprintf("%d", c.Confirmations),
			fmt.Sprintf("%d", c.Disputes),
			fmt.Sprintf("%t", c.Verified),
			formatTime(c.CreatedAt),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// renderClaims dispatches a claim list to the selected output format.
func renderClaims(claims []truthapi.Claim, jsonValue any) error {
	switch getOutputFormat() {
	case "json":
		return printJSON(jsonValue)
	case "csv":
		return claimsCSV(os.Stdout, claims)
	default:
		claimsTable(os.Stdout, claims)
		return nil
	}
}

// printClaimDetail renders one claim in full.
func printClaimDetail(c *truthapi.Claim) {
	fmt.Printf("%s Claim %s\n", statusEmoji(c.Verified), c.ID)
	fmt.Printf("   Text: %s\n", c.Claim)
	fmt.Printf("   Type: %s\n", c.Type)
	fmt.Printf("   Score: %.2f (%d confirmations, %d disputes)\n",
		c.CredibilityScore, c.Confirmations, c.Disputes)
	if c.BlockchainStatus != "" {
		fmt.Printf("   Blockchain: %s\n", c.BlockchainStatus)
	}
	if c.Semantic != nil {
		fmt.Printf("   Semantic: %s %s %s\n", c.Semantic.Subject, c.Semantic.Predicate, c.Semantic.Object)
	}
	if c.ParentID != nil {
		fmt.Printf("   Parent: %s\n", *c.ParentID)
	}
	for _, link := range c.Evidence {
		fmt.Printf("   Evidence: %s\n", link)
	}
	if !c.CreatedAt.IsZero() {
		fmt.Printf("   Created: %s\n", formatTime(c.CreatedAt))
	}
	fmt.Printf("   Author key: %s\n", truncate(flattenPEM(c.PublicKey), 40))
}

// statusEmoji marks verified claims, honoring --no-color.
func statusEmoji(ok bool) string {
	if noColor {
		if ok {
			return "[ok]"
		}
		return "[--]"
	}
	if ok {
		return "✅"
	}
	return "•"
}

func emoji(symbol, plain string) string {
	if noColor {
		return plain
	}
	return symbol
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// shortID abbreviates server IDs for table display.
func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}

// flattenPEM collapses a PEM block to a single line for table cells.
func flattenPEM(pem string) string {
	out := make([]byte, 0, len(pem))
	for i := 0; i < len(pem); i++ {
		if pem[i] == '\n' || pem[i] == '\r' {
			continue
		}
		out = append(out, pem[i])
	}
	return string(out)
}
