package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritasnet/veritas-cli/pkg/errs"
)

var (
	keyExportFormat string
	keyExportOut    string
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect and export the local key",
}

var keyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the public key",
	Long: `Export the local public key for sharing. PEM is the form the network
itself uses; JWK suits systems that consume JSON Web Key sets. The key ID
of the JWK is the key fingerprint.

Only the public half is ever exported.`,
	Example: `  # Print the PEM public key
  veritas key export

  # Write a JWK file
  veritas key export --format jwk --out veritas.pub.jwk`,
	RunE: func(_ *cobra.Command, _ []string) error {
		var data []byte
		switch keyExportFormat {
		case "pem":
			if !cfg.HasKeyPair() {
				return errs.Precondition("no key pair found, run 'veritas init' first")
			}
			data = []byte(cfg.KeyPair.PublicKeyPEM)
		case "jwk":
			jwk, err := store.ExportPublicJWK()
			if err != nil {
				return err
			}
			encoded, err := json.MarshalIndent(jwk, "", "  ")
			if err != nil {
				return err
			}
			data = append(encoded, '\n')
		default:
			return errs.Precondition("unknown key format %q, use pem or jwk", keyExportFormat)
		}

		if keyExportOut == "" {
			fmt.Print(string(data))
			return nil
		}
		if err := os.WriteFile(keyExportOut, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", keyExportOut, err)
		}
		fmt.Printf("%s Public key saved to %s\n", emoji("✅", "[ok]"), keyExportOut)
		return nil
	},
}

var keyFingerprintCmd = &cobra.Command{
	Use:   "fingerprint",
	Short: "Print the key fingerprint",
	RunE: func(_ *cobra.Command, _ []string) error {
		if !cfg.HasKeyPair() {
			return errs.Precondition("no key pair found, run 'veritas init' first")
		}
		fp, err := cfg.KeyPair.Fingerprint()
		if err != nil {
			return err
		}
		fmt.Println(fp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyExportCmd)
	keyCmd.AddCommand(keyFingerprintCmd)

	keyExportCmd.Flags().StringVar(&keyExportFormat, "format", "pem", "export format: pem or jwk")
	keyExportCmd.Flags().StringVar(&keyExportOut, "out", "", "output file (default stdout)")
}
