package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfilesConfig holds the profile definitions (read/write). A profile is an
// isolated set of reference data and unresolved queue, e.g. one per bettor.
type ProfilesConfig struct {
	Profiles map[string]ProfileEntry `yaml:"profiles,omitempty"`
}

// ProfileEntry holds configuration for a specific profile.
type ProfileEntry struct {
	Namespace   string `yaml:"namespace"`
	Description string `yaml:"description,omitempty"`
}

// LoadProfiles loads profile configuration from the .betnorm directory.
func LoadProfiles(basePath string) (*ProfilesConfig, error) {
	profilesFile := filepath.Join(basePath, DefaultConfigDir, DefaultProfilesFile)

	data, err := os.ReadFile(profilesFile)
	if os.IsNotExist(err) {
		// Return empty config if file doesn't exist
		return &ProfilesConfig{
			Profiles: make(map[string]ProfileEntry),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing profiles file: %w", err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]ProfileEntry)
	}

	return &cfg, nil
}

// Save writes the profiles configuration to the profiles file.
func (p *ProfilesConfig) Save(basePath string) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)
	profilesFile := filepath.Join(configDir, DefaultProfilesFile)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling profiles config: %w", err)
	}

	if err := os.WriteFile(profilesFile, data, 0600); err != nil {
		return fmt.Errorf("writing profiles file: %w", err)
	}

	return nil
}

// Add adds a profile to the configuration.
func (p *ProfilesConfig) Add(name string, entry ProfileEntry) {
	if p.Profiles == nil {
		p.Profiles = make(map[string]ProfileEntry)
	}
	p.Profiles[name] = entry
}

// Remove removes a profile from the configuration.
func (p *ProfilesConfig) Remove(name string) {
	if p.Profiles != nil {
		delete(p.Profiles, name)
	}
}

// Get returns the configuration for a specific profile.
func (p *ProfilesConfig) Get(name string) (*ProfileEntry, error) {
	if len(p.Profiles) == 0 {
		return nil, errors.New("no profiles configured")
	}

	entry, ok := p.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile %q not found (available: %s)", name, strings.Join(p.Names(5), ", "))
	}

	return &entry, nil
}

// Names returns up to limit profile names in sorted order, with "..."
// appended when more exist. A limit of zero returns every name.
func (p *ProfilesConfig) Names(limit int) []string {
	names := make([]string, 0, len(p.Profiles))
	for k := range p.Profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	if limit > 0 && len(names) > limit {
		names = append(names[:limit], "...")
	}
	return names
}

// Exists checks if a profile exists in the configuration.
func (p *ProfilesConfig) Exists(name string) bool {
	if p.Profiles == nil {
		return false
	}
	_, ok := p.Profiles[name]
	return ok
}

// ProfilesExists checks if a profiles file exists in the given path.
func ProfilesExists(basePath string) bool {
	profilesFile := filepath.Join(basePath, DefaultConfigDir, DefaultProfilesFile)
	_, err := os.Stat(profilesFile)
	return err == nil
}
