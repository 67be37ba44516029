package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	initForce    bool
	initRegister bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a local signing identity",
	Long: `Create the local RSA key pair that signs everything you publish.

The key pair is stored in the config file under the veritas home directory
(~/.veritas, or $VERITAS_HOME). The private key never leaves this machine;
only the public half is sent to the network.

Running init again is safe: an existing key pair is kept unless --force is
given. Forcing a new key pair abandons the old identity, including any
credibility attached to it, and ends the current session.`,
	Example: `  # Create a key pair (no-op if one exists)
  veritas init

  # Create a key pair and register it with the network in one step
  veritas init --register

  # Start over with a fresh identity
  veritas init --force`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false,
		"replace an existing key pair (abandons the old identity!)")
	initCmd.Flags().BoolVar(&initRegister, "register", false,
		"register the key with the network after generating")
}

func runInit(cmd *cobra.Command, _ []string) error {
	// 1. Generate (or keep) the key pair
	info, err := store.Generate(initForce)
	if err != nil {
		return err
	}
	// cfg was loaded before generation; pick up the new key pair.
	cfg, err = store.Load()
	if err != nil {
		return err
	}

	if info.Generated {
		fmt.Printf("%s Key pair generated\n", emoji("🔑", "[key]"))
	} else {
		fmt.Printf("%s Key pair already exists, keeping it (use --force to replace)\n", emoji("🔑", "[key]"))
	}
	fmt.Printf("   Fingerprint: %s\n", info.Fingerprint)
	fmt.Printf("   Config: %s\n", store.Path())

	// 2. Optionally register with the network
	if initRegister {
		if err := registerAndStoreSession(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Key pair saved, but registration failed: %v\n", err)
			fmt.Fprintln(os.Stderr, "   Register later with: veritas register")
			return nil
		}
		fmt.Printf("%s Registered with %s\n", emoji("✅", "[ok]"), apiClient.BaseURL)
	}

	if !initRegister && info.Generated {
		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Println("  1. veritas register      announce this key to the network")
		fmt.Println("  2. veritas claim create  publish your first signed claim")
	}

	return nil
}
