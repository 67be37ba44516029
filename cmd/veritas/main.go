// Package main is the entry point for the veritas CLI, a client for
// publishing and verifying claims on a truth network.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/veritasnet/veritas-cli/pkg/credstore"
	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/truthapi"
)

// Build info - set via -ldflags at build time
var (
	Version   = "dev"
	CommitID  = "unknown"
	BuildDate = "unknown"
)

var (
	cfgDir      string
	serverFlag  string
	outputFlag  string
	timeoutFlag int
	verbose     bool
	noColor     bool

	store     *credstore.Store
	cfg       *credstore.Config
	apiClient *truthapi.Client
)

var rootCmd = &cobra.Command{
	Use:   "veritas",
	Short: "Truth network CLI",
	Long: `veritas is a command-line client for a distributed truth network.
It manages a local signing identity, publishes signed claims and proofs,
and queries the network for claims, searches and statistics.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(); err != nil {
			return err
		}

		var err error
		store, err = credstore.New(cfgDir)
		if err != nil {
			return err
		}
		cfg, err = store.Load()
		if err != nil {
			return err
		}

		apiClient = truthapi.NewClient(resolveServer(), cfg.Token)
		apiClient.HTTPClient.Timeout = resolveTimeout()
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errs.ErrPrecondition) {
			fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "config directory (default ~/.veritas, or $VERITAS_HOME)")
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "truth network server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "output format: table, json, csv")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug details to the log file")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable emoji and color in output")
}

// initConfig loads the optional preferences file, ~/.veritas/cli.yaml.
// Credentials never live there; they stay in the credential store.
func initConfig() {
	dir := cfgDir
	if dir == "" {
		dir = credstore.DefaultDir()
	}

	viper.AddConfigPath(dir)
	viper.SetConfigName("cli")
	viper.SetConfigType("yaml")

	viper.SetDefault("output.format", "table")
	viper.SetDefault("http.timeout", 30)
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size", 10)
	viper.SetDefault("logging.max_files", 5)

	viper.SetEnvPrefix("VERITAS")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// resolveServer picks the server URL: flag, then environment, then the
// credential file.
func resolveServer() string {
	if serverFlag != "" {
		return serverFlag
	}
	if env := os.Getenv("VERITAS_SERVER"); env != "" {
		return env
	}
	return cfg.Server
}

func resolveTimeout() time.Duration {
	seconds := viper.GetInt("http.timeout")
	if timeoutFlag > 0 {
		seconds = timeoutFlag
	}
	if seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func getOutputFormat() string {
	if outputFlag != "" {
		return outputFlag
	}
	return viper.GetString("output.format")
}
