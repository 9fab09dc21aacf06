package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/entities"
)

type resolveFlags struct {
	kind   string
	sport  string
	team   string
	asJSON bool
}

func newResolveCmd() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "resolve <raw>...",
		Short: "Resolve raw names to canonical entities",
		Long:  "Resolves each argument against the profile's reference data. Nothing is queued.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.kind, "type", "t", "auto", "Entity type (team, player, stat, auto)")
	cmd.Flags().StringVarP(&flags.sport, "sport", "s", "", "Sport context (e.g. NBA)")
	cmd.Flags().StringVar(&flags.team, "team", "", "Team context for player lookups")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print results as JSON")

	return cmd
}

func runResolve(raws []string, flags resolveFlags) error {
	return withDeps(func(d *Deps) error {
		results := make([]*handlers.ResolveResult, 0, len(raws))
		for _, raw := range raws {
			res, err := d.ResolveHandler.Handle(handlers.ResolveRequest{
				Kind:  flags.kind,
				Raw:   raw,
				Sport: flags.sport,
				Team:  flags.team,
			})
			if err != nil {
				return err
			}
			results = append(results, res)
		}

		if flags.asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(results)
		}

		for _, res := range results {
			fmt.Println(formatResolveResult(res))
		}
		return nil
	})
}

func formatResolveResult(res *handlers.ResolveResult) string {
	switch res.Status {
	case entities.StatusResolved:
		return fmt.Sprintf("%-24q -> %s [%s]", res.Raw, res.Canonical, res.Kind)
	case entities.StatusAmbiguous:
		return fmt.Sprintf("%-24q ?? ambiguous [%s]: %s", res.Raw, res.Kind, strings.Join(res.Candidates, ", "))
	default:
		return fmt.Sprintf("%-24q !! unresolved [%s] (aggregates as %s)", res.Raw, res.Kind, res.AggregationKey)
	}
}
