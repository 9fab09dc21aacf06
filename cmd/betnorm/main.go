// Package main provides the entry point for the betnorm CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalProfile string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := newRootCmd()
	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "betnorm",
		Short:         "Resolve raw team, player and bet type names from bet exports to canonical entities",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalProfile, "profile", "p", "", "Profile to operate on (default \"default\")")

	rootCmd.AddCommand(
		newInitCmd(),
		newResolveCmd(),
		newIngestCmd(),
		newQueueCmd(),
		newRefDataCmd(),
		newExportCmd(),
		newServeCmd(),
		newProfilesCmd(),
	)

	return rootCmd
}
