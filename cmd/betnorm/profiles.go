package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ersonp/betnorm/internal/infrastructure/config"
)

func newProfilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "Manage profiles",
		Long:  "A profile is an isolated set of reference data and unresolved queue.",
		RunE:  runProfilesList,
	}

	cmd.AddCommand(
		newProfilesListCmd(),
		newProfilesCreateCmd(),
		newProfilesDeleteCmd(),
	)

	return cmd
}

func newProfilesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all profiles",
		RunE:  runProfilesList,
	}
}

func runProfilesList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	profiles, err := config.LoadProfiles(cwd)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	if len(profiles.Profiles) == 0 {
		fmt.Println("No profiles configured.")
		fmt.Println("Use 'betnorm profiles create NAME' to create a profile.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tNAMESPACE\tDESCRIPTION")
	for _, name := range profiles.Names(0) {
		p := profiles.Profiles[name]
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, p.Namespace, p.Description)
	}
	w.Flush()

	return nil
}

func newProfilesCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			entry, err := createProfile(cwd, args[0], description)
			if err != nil {
				return err
			}

			fmt.Printf("Created profile %q with namespace %q\n", args[0], entry.Namespace)
			fmt.Printf("Run 'betnorm -p %s init' to seed it.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Profile description")

	return cmd
}

// createProfile registers name in profiles.yaml. The workspace must already
// be initialized.
func createProfile(basePath, name, description string) (*config.ProfileEntry, error) {
	if !config.Exists(basePath) {
		return nil, fmt.Errorf("betnorm not initialized in %s, run 'betnorm init' first", basePath)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	profiles, err := config.LoadProfiles(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading profiles: %w", err)
	}

	if profiles.Exists(name) {
		return nil, fmt.Errorf("profile %q already exists", name)
	}

	entry := config.ProfileEntry{
		Namespace:   cfg.Namespace(name),
		Description: description,
	}
	profiles.Add(name, entry)

	if err := profiles.Save(basePath); err != nil {
		return nil, fmt.Errorf("saving profiles: %w", err)
	}

	return &entry, nil
}

func newProfilesDeleteCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a profile",
		Long:  "Removes a profile from profiles.yaml. With --purge the profile's SQLite directory is deleted too.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("getting current directory: %w", err)
			}

			if err := deleteProfile(cwd, args[0], purge); err != nil {
				return err
			}

			fmt.Printf("Deleted profile %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, "Also delete the profile's local data")

	return cmd
}

func deleteProfile(basePath, name string, purge bool) error {
	if name == config.DefaultProfile {
		return fmt.Errorf("the %q profile cannot be deleted", config.DefaultProfile)
	}

	profiles, err := config.LoadProfiles(basePath)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	if !profiles.Exists(name) {
		return fmt.Errorf("profile %q not found", name)
	}

	profiles.Remove(name)
	if err := profiles.Save(basePath); err != nil {
		return fmt.Errorf("saving profiles: %w", err)
	}

	if purge {
		if err := os.RemoveAll(config.ProfileDir(basePath, name)); err != nil {
			return fmt.Errorf("removing profile data: %w", err)
		}
	}

	return nil
}
