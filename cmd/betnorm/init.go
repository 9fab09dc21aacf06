package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/ports"
	"github.com/ersonp/betnorm/internal/infrastructure/config"
	"github.com/ersonp/betnorm/internal/infrastructure/logging"
	"github.com/ersonp/betnorm/internal/infrastructure/storage"
)

func newInitCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new betnorm workspace",
		Long:  "Creates a .betnorm directory with default configuration, prepares storage and seeds default NBA teams and stat types.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, skipSeed)
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "no-seed", false, "Do not seed default reference data")

	return cmd
}

func runInit(cmd *cobra.Command, skipSeed bool) error {
	ctx := cmd.Context()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	profile := globalProfile
	if profile == "" {
		profile = config.DefaultProfile
	}

	open := func(cfg *config.Config) (ports.CollectionStore, error) {
		return storage.Open(cfg, storage.Options{BasePath: cwd, Profile: profile})
	}
	handler := handlers.NewInitHandler(open, logging.New(config.Default().Log, os.Stderr))

	result, err := handler.Handle(ctx, cwd, handlers.InitOptions{Profile: profile, SkipSeed: skipSeed})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", result.ConfigPath)
	fmt.Printf("Profile %q on %s storage\n", result.Profile, result.Backend)
	if result.Seeded > 0 {
		fmt.Printf("Seeded %d reference entities\n", result.Seeded)
	}
	fmt.Println("betnorm initialized successfully!")

	return nil
}
