package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

type ingestFlags struct {
	format    string
	pattern   string
	recursive bool
	dryRun    bool
	asJSON    bool
}

func newIngestCmd() *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   "ingest <file|directory|glob>",
		Short: "Resolve the bet legs of an export and queue what does not resolve",
		Long: `Reads bet mentions from a JSON or CSV export, resolves every entity through
the resolver, and adds unresolved or ambiguous names to the review queue.

CSV columns: entities, entity_type, market, book, bet_id, sport, team
(several entities in one cell are separated by "|").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "auto", "Input format (json, csv, auto)")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "*.csv", "File pattern when ingesting a directory")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Resolve and report without queueing")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func runIngest(cmd *cobra.Command, path string, flags ingestFlags) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		opts := handlers.IngestOptions{
			Format:           flags.format,
			DryRun:           flags.dryRun,
			UnresolvedBucket: d.Config.Resolver.UnresolvedBucket,
		}

		dir, pattern := path, flags.pattern
		if handlers.IsGlobPattern(path) {
			dir, pattern = filepath.Dir(path), filepath.Base(path)
		}

		if handlers.IsDirectory(dir) {
			result, err := d.IngestHandler.HandleDirectory(ctx, dir, pattern, flags.recursive, func(file string) {
				fmt.Fprintf(os.Stderr, "Ingesting %s...\n", file)
			}, opts)
			if err != nil {
				return err
			}
			for _, fr := range result.FileResults {
				printIngestReport(fr, flags.asJSON)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "  error: %v\n", e)
			}
			fmt.Printf("\n%d files, %d mentions, %d queued\n", result.TotalFiles, result.TotalMentions, result.TotalQueued)
			return nil
		}

		result, err := d.IngestHandler.Handle(ctx, path, opts)
		if result != nil && result.Report != nil {
			printIngestReport(result, flags.asJSON)
		}
		return err
	})
}

func printIngestReport(result *handlers.IngestResult, asJSON bool) {
	r := result.Report
	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		_ = encoder.Encode(struct {
			File   string                 `json:"file"`
			Report *services.IngestReport `json:"report"`
		}{result.FilePath, r})
		return
	}

	fmt.Printf("%s\n", result.FilePath)
	fmt.Printf("  mentions: %d  resolved: %d  unresolved: %d  ambiguous: %d  queued: %d  already queued: %d\n",
		r.Mentions, r.Resolved, r.Unresolved, r.Ambiguous, r.Queued, r.Duplicates)

	for _, kind := range entities.ResolvableKinds {
		agg := r.Aggregates[kind]
		if len(agg) == 0 {
			continue
		}
		fmt.Printf("  %s:\n", kind)
		for _, key := range sortedByCount(agg) {
			fmt.Printf("    %-30s %d\n", key, agg[key])
		}
	}

	for _, e := range r.Errors {
		fmt.Printf("  error: %v\n", e)
	}
}

// sortedByCount orders aggregation keys by descending count, then name.
func sortedByCount(agg map[string]int) []string {
	keys := make([]string, 0, len(agg))
	for k := range agg {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if agg[keys[i]] != agg[keys[j]] {
			return agg[keys[i]] > agg[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
