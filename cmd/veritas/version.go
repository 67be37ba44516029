package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if getOutputFormat() == "json" {
			return printJSON(map[string]string{
				"version": Version,
				"commit":  CommitID,
				"built":   BuildDate,
				"go":      runtime.Version(),
				"osArch":  runtime.GOOS + "/" + runtime.GOARCH,
			})
		}

		fmt.Printf("veritas v%s (%s) built %s\n", Version, CommitID, BuildDate)

		// Server health is best-effort here; version must work offline.
		if status, err := apiClient.Health(cmd.Context()); err == nil {
			fmt.Printf("\nServer: %s\n", apiClient.BaseURL)
			if status.Version != "" {
				fmt.Printf("Server version: v%s\n", status.Version)
			}
		}

		fmt.Printf("\nBuild Info:\n")
		fmt.Printf("  Go: %s\n", runtime.Version())
		fmt.Printf("  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
