package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

func newQueueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Review unresolved names",
		Long:  "List grouped unresolved names and map, create or ignore them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueGroups("", "", DefaultGroupLimit, false)
		},
	}

	cmd.AddCommand(
		newQueueGroupsCmd(),
		newQueueCountCmd(),
		newQueueMapCmd(),
		newQueueCreateCmd(),
		newQueueIgnoreCmd(),
	)

	return cmd
}

func newQueueGroupsCmd() *cobra.Command {
	var kind, sport string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"list"},
		Short:   "List queue groups, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueueGroups(kind, sport, limit, asJSON)
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "Filter by entity type")
	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Filter by sport")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultGroupLimit, "Maximum number of groups to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print groups as JSON")

	return cmd
}

func runQueueGroups(kind, sport string, limit int, asJSON bool) error {
	return withDeps(func(d *Deps) error {
		groups, err := d.QueueHandler.Groups(kind, sport)
		if err != nil {
			return err
		}

		if limit > 0 && len(groups) > limit {
			groups = groups[:limit]
		}

		if asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(groups)
		}

		if len(groups) == 0 {
			fmt.Println("Queue is empty.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "GROUP\tRAW\tCOUNT\tLAST SEEN\tSAMPLES")
		for i := range groups {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				groups[i].GroupKey,
				groupRawLabel(&groups[i]),
				groups[i].Count,
				groups[i].LastSeenAt.Format("2006-01-02 15:04"),
				truncate(formatSamples(groups[i].SampleContexts), DefaultSampleWidth),
			)
		}
		w.Flush()

		return nil
	})
}

func groupRawLabel(g *entities.GroupedQueueItem) string {
	if g.Ambiguous {
		return g.RawValue + " (ambiguous: " + strings.Join(g.Candidates, " / ") + ")"
	}
	return g.RawValue
}

func formatSamples(samples []entities.SampleContext) string {
	parts := make([]string, 0, len(samples))
	for _, s := range samples {
		switch {
		case s.Market != "" && s.Book != "":
			parts = append(parts, s.Book+": "+s.Market)
		case s.Book != "":
			parts = append(parts, s.Book)
		default:
			parts = append(parts, s.Market)
		}
	}
	return strings.Join(parts, "; ")
}

func newQueueCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of queued items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				fmt.Println(d.QueueHandler.Count())
				return nil
			})
		},
	}
}

func newQueueMapCmd() *cobra.Command {
	var req services.MapRequest
	var kind, sport string

	cmd := &cobra.Command{
		Use:   "map <group-key> <canonical>",
		Short: "Add the group's raw name as an alias of an existing entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.GroupKey = args[0]
			req.Canonical = args[1]
			req.Kind = entities.EntityKind(kind)
			req.Sport = entities.NormalizeSport(sport)

			return withDeps(func(d *Deps) error {
				outcome, err := d.QueueHandler.Map(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("mapping group: %w", err)
				}
				fmt.Printf("Mapped %s to %s (%d items removed)\n", outcome.GroupKey, outcome.Canonical, outcome.Removed)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "Entity type, required when the group type is unknown")
	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport, required when the group has none")

	return cmd
}

func newQueueCreateCmd() *cobra.Command {
	var req services.CreateRequest
	var kind, sport string

	cmd := &cobra.Command{
		Use:   "create <group-key> [canonical]",
		Short: "Create a new canonical entity from a group",
		Long:  "Creates a canonical entity whose aliases include the group's raw name. The canonical defaults to the raw name.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.GroupKey = args[0]
			if len(args) > 1 {
				req.Canonical = args[1]
			}
			req.Kind = entities.EntityKind(kind)
			req.Sport = entities.NormalizeSport(sport)

			return withDeps(func(d *Deps) error {
				outcome, err := d.QueueHandler.Create(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("creating canonical: %w", err)
				}
				fmt.Printf("Created %s from %s (%d items removed)\n", outcome.Canonical, outcome.GroupKey, outcome.Removed)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "Entity type, required when the group type is unknown")
	cmd.Flags().StringVarP(&sport, "sport", "s", "", "Sport, required when the group has none")
	cmd.Flags().StringSliceVarP(&req.ExtraAliases, "alias", "a", nil, "Additional aliases")
	cmd.Flags().StringSliceVar(&req.Abbreviations, "abbr", nil, "Abbreviations (teams only)")
	cmd.Flags().StringVar(&req.Team, "team", "", "Team affiliation (players only)")
	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "Description (bet types only)")

	return cmd
}

func newQueueIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ignore <group-key>...",
		Short: "Drop groups from the queue without changing reference data",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				for _, key := range args {
					outcome, err := d.QueueHandler.Ignore(cmd.Context(), key)
					if err != nil {
						return fmt.Errorf("ignoring %s: %w", key, err)
					}
					fmt.Printf("Ignored %s (%d items removed)\n", outcome.GroupKey, outcome.Removed)
				}
				return nil
			})
		},
	}
}

// truncate shortens s to at most maxLen runes, adding "..." when cut.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
