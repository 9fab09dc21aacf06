package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/application/handlers"
	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

func newRefDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "refdata",
		Aliases: []string{"ref"},
		Short:   "Manage canonical teams, players and bet types",
	}

	cmd.AddCommand(
		newRefDataListCmd(),
		newRefDataAddCmd(),
		newRefDataToggleCmd("disable", "Hide an entity from resolution", false),
		newRefDataToggleCmd("enable", "Make a disabled entity resolvable again", true),
		newRefDataRemoveCmd(),
		newRefDataImportCmd(),
	)

	return cmd
}

func newRefDataListCmd() *cobra.Command {
	var sport string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <team|player|stat>",
		Short: "List reference entities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				list, err := d.RefDataHandler.List(args[0], sport)
				if err != nil {
					return err
				}

				if asJSON {
					encoder := json.NewEncoder(os.Stdout)
					encoder.SetIndent("", "  ")
					return encoder.Encode(list)
				}

				if len(list) == 0 {
					fmt.Println("No entities found.")
					return nil
				}

				printEntities(list)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Filter by sport")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print entities as JSON")

	return cmd
}

func printEntities(list []entities.CanonicalEntity) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CANONICAL\tSPORT\tALIASES\tDETAIL\tSTATUS")
	for i := range list {
		e := &list[i]
		status := "active"
		if e.Disabled {
			status = "disabled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			e.Canonical,
			e.Sport,
			truncate(strings.Join(e.Aliases, ", "), DefaultSampleWidth),
			entityDetail(e),
			status,
		)
	}
	w.Flush()
}

func entityDetail(e *entities.CanonicalEntity) string {
	switch e.Kind {
	case entities.KindTeam:
		return strings.Join(e.Abbreviations, "/")
	case entities.KindPlayer:
		return e.Team
	default:
		return e.Description
	}
}

func newRefDataAddCmd() *cobra.Command {
	var entity entities.CanonicalEntity
	var sport string

	cmd := &cobra.Command{
		Use:   "add <team|player|stat> <canonical>",
		Short: "Add a canonical entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity.Canonical = args[1]
			entity.Sport = entities.NormalizeSport(sport)

			return withDeps(func(d *Deps) error {
				added, err := d.RefDataHandler.Add(cmd.Context(), args[0], entity)
				if err != nil {
					return fmt.Errorf("adding entity: %w", err)
				}
				fmt.Printf("Added %s %q (%s)\n", added.Kind, added.Canonical, added.Sport)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport code (required)")
	cmd.Flags().StringSliceVarP(&entity.Aliases, "alias", "a", nil, "Aliases")
	cmd.Flags().StringSliceVar(&entity.Abbreviations, "abbr", nil, "Abbreviations (teams only)")
	cmd.Flags().StringVar(&entity.Team, "team", "", "Team affiliation (players only)")
	cmd.Flags().StringVarP(&entity.Description, "description", "d", "", "Description (bet types only)")
	_ = cmd.MarkFlagRequired("sport")

	return cmd
}

func newRefDataToggleCmd(use, short string, enable bool) *cobra.Command {
	var sport string

	cmd := &cobra.Command{
		Use:   use + " <team|player|stat> <canonical>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				var err error
				if enable {
					err = d.RefDataHandler.Enable(cmd.Context(), args[0], args[1], sport)
				} else {
					err = d.RefDataHandler.Disable(cmd.Context(), args[0], args[1], sport)
				}
				if err != nil {
					return err
				}
				fmt.Printf("%sd %s %q\n", strings.ToUpper(use[:1])+use[1:], args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport code")

	return cmd
}

func newRefDataRemoveCmd() *cobra.Command {
	var sport string

	cmd := &cobra.Command{
		Use:     "remove <team|player|stat> <canonical>",
		Aliases: []string{"rm"},
		Short:   "Delete an entity",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				if err := d.RefDataHandler.Remove(cmd.Context(), args[0], args[1], sport); err != nil {
					return err
				}
				fmt.Printf("Removed %s %q\n", args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport code")

	return cmd
}

func newRefDataImportCmd() *cobra.Command {
	var dryRun bool
	var onConflict string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import reference data from a YAML or JSON seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy := services.ConflictStrategy(onConflict)
			if strategy != services.ConflictSkip && strategy != services.ConflictOverwrite {
				return fmt.Errorf("invalid --on-conflict %q, use skip or overwrite", onConflict)
			}

			return withDeps(func(d *Deps) error {
				result, err := d.ImportHandler.Handle(cmd.Context(), args[0], handlers.ImportOptions{
					DryRun:     dryRun,
					OnConflict: strategy,
				})
				if err != nil {
					return err
				}

				prefix := ""
				if dryRun {
					prefix = "(dry run) "
				}
				fmt.Printf("%sImported: %d  Updated: %d  Skipped: %d\n", prefix, result.Imported, result.Updated, result.Skipped)
				for _, e := range result.Errors {
					fmt.Printf("  error: %s\n", e)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without saving")
	cmd.Flags().StringVar(&onConflict, "on-conflict", string(services.ConflictSkip), "What to do with existing entities (skip, overwrite)")

	return cmd
}
