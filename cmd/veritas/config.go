package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/veritasnet/veritas-cli/pkg/validate"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
	Long: `Manage client configuration.

Two files live under the config directory:
  config.json  credentials (server, key pair, session token)
  cli.yaml     preferences (output format, timeout, logging)

'config set server <url>' writes the credential file; every other key goes
to the preferences file.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: func(_ *cobra.Command, _ []string) error {
		fingerprint := ""
		if cfg.HasKeyPair() {
			fp, err := cfg.KeyPair.Fingerprint()
			if err != nil {
				return err
			}
			fingerprint = fp
		}

		view := map[string]any{
			"server":      resolveServer(),
			"configDir":   store.Dir(),
			"keyPair":     cfg.HasKeyPair(),
			"fingerprint": fingerprint,
			"session":     cfg.HasSession(),
			"preferences": viper.AllSettings(),
		}

		if getOutputFormat() == "json" {
			return printJSON(view)
		}

		out, err := yaml.Marshal(view)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Example: `  veritas config set server https://truth.veritas.network
  veritas config set output.format json
  veritas config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if key == "server" {
			if err := validate.ServerURL(value); err != nil {
				return err
			}
			if err := store.SetServer(value); err != nil {
				return err
			}
			fmt.Printf("Set server = %s\n", value)
			return nil
		}

		viper.Set(key, value)
		prefsPath := filepath.Join(store.Dir(), "cli.yaml")
		if err := os.MkdirAll(filepath.Dir(prefsPath), 0700); err != nil {
			return err
		}
		if err := viper.WriteConfigAs(prefsPath); err != nil {
			return fmt.Errorf("saving preferences: %w", err)
		}

		fmt.Printf("Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		key := args[0]

		if key == "server" {
			fmt.Println(resolveServer())
			return nil
		}

		value := viper.Get(key)
		if value == nil {
			return fmt.Errorf("key not found: %s", key)
		}
		fmt.Println(value)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
}
