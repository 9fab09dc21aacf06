package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/domain/entities"
	"github.com/ersonp/betnorm/internal/domain/services"
)

type exportFlags struct {
	format string
	output string
	kind   string
	sport  string
}

type exporter struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export <refdata|queue>",
		Short: "Export reference data or the review queue to file",
		Long:  "Exports reference entities or grouped unresolved names to JSON, CSV, or markdown format.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&flags.kind, "type", "t", "", "Filter by entity type")
	cmd.Flags().StringVarP(&flags.sport, "sport", "s", "", "Filter by sport")

	return cmd
}

func runExport(subject string, flags exportFlags) error {
	if !slices.Contains(validExportSubjects, subject) {
		return fmt.Errorf("invalid subject %q, valid subjects: %v", subject, validExportSubjects)
	}
	if !slices.Contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	var kind entities.EntityKind
	if flags.kind != "" {
		k, ok := entities.ParseKind(flags.kind)
		if !ok {
			return fmt.Errorf("invalid type %q", flags.kind)
		}
		kind = k
	}
	sport := entities.NormalizeSport(flags.sport)

	return withInternalDeps(func(d *internalDeps) error {
		e := &exporter{format: flags.format, output: flags.output}

		if subject == "queue" {
			groups, err := d.QueueHandler.Groups(flags.kind, flags.sport)
			if err != nil {
				return err
			}
			return e.export(len(groups), "groups", func(w io.Writer) error {
				return e.formatGroups(w, groups)
			})
		}

		list := collectEntities(d.refs, kind, sport)
		return e.export(len(list), "entities", func(w io.Writer) error {
			return e.formatEntities(w, list)
		})
	})
}

// collectEntities gathers entities of kind (every resolvable kind when
// empty), optionally narrowed to one sport.
func collectEntities(refs *services.ReferenceStore, kind entities.EntityKind, sport entities.SportCode) []entities.CanonicalEntity {
	kinds := entities.ResolvableKinds
	if kind.IsResolvable() {
		kinds = []entities.EntityKind{kind}
	}

	var list []entities.CanonicalEntity
	for _, k := range kinds {
		if sport != "" {
			list = append(list, refs.ListBySport(k, sport)...)
		} else {
			list = append(list, refs.List(k)...)
		}
	}
	return list
}

func (e *exporter) export(count int, noun string, write func(io.Writer) error) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := write(w); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d %s to %s\n", count, noun, e.output)
	}

	return nil
}

func (e *exporter) formatEntities(w io.Writer, list []entities.CanonicalEntity) error {
	switch e.format {
	case "json":
		return formatJSON(w, list)
	case "csv":
		return formatEntitiesCSV(w, list)
	case "markdown":
		return formatEntitiesMarkdown(w, list)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

func (e *exporter) formatGroups(w io.Writer, groups []entities.GroupedQueueItem) error {
	switch e.format {
	case "json":
		return formatJSON(w, groups)
	case "csv":
		return formatGroupsCSV(w, groups)
	case "markdown":
		return formatGroupsMarkdown(w, groups)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

func formatJSON[T any](w io.Writer, items []T) error {
	if items == nil {
		items = []T{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

func formatEntitiesCSV(w io.Writer, list []entities.CanonicalEntity) error {
	writer := csv.NewWriter(w)

	header := []string{"kind", "canonical", "sport", "aliases", "abbreviations", "team", "description", "disabled"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, e := range list {
		row := []string{
			string(e.Kind),
			e.Canonical,
			string(e.Sport),
			strings.Join(e.Aliases, "|"),
			strings.Join(e.Abbreviations, "|"),
			e.Team,
			e.Description,
			strconv.FormatBool(e.Disabled),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatGroupsCSV(w io.Writer, groups []entities.GroupedQueueItem) error {
	writer := csv.NewWriter(w)

	header := []string{"group_key", "entity_type", "sport", "raw_value", "count", "last_seen_at", "books"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, g := range groups {
		books := make([]string, 0, len(g.SampleContexts))
		for _, s := range g.SampleContexts {
			books = append(books, s.Book)
		}
		row := []string{
			g.GroupKey,
			string(g.Kind),
			string(g.Sport),
			g.RawValue,
			strconv.Itoa(g.Count),
			g.LastSeenAt.UTC().Format(time.RFC3339),
			strings.Join(books, "|"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatEntitiesMarkdown(w io.Writer, list []entities.CanonicalEntity) error {
	if _, err := fmt.Fprintf(w, "# Reference Data\n\nTotal: %d entities\n\n", len(list)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Kind | Canonical | Sport | Aliases | Detail |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|-----------|-------|---------|--------|\n"); err != nil {
		return err
	}

	for i := range list {
		e := &list[i]
		name := escapeMarkdown(e.Canonical)
		if e.Disabled {
			name = "~~" + name + "~~"
		}
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			e.Kind,
			name,
			e.Sport,
			escapeMarkdown(strings.Join(e.Aliases, ", ")),
			escapeMarkdown(entityDetail(e)),
		); err != nil {
			return err
		}
	}

	return nil
}

func formatGroupsMarkdown(w io.Writer, groups []entities.GroupedQueueItem) error {
	if _, err := fmt.Fprintf(w, "# Unresolved Queue\n\nTotal: %d groups\n\n", len(groups)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Raw | Type | Sport | Count | Seen In |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|-----|------|-------|-------|---------|\n"); err != nil {
		return err
	}

	for i := range groups {
		g := &groups[i]
		sport := string(g.Sport)
		if sport == "" {
			sport = entities.UnknownSport
		}
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %d | %s |\n",
			escapeMarkdown(g.RawValue),
			g.Kind,
			sport,
			g.Count,
			escapeMarkdown(formatSamples(g.SampleContexts)),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
