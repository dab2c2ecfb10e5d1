package config

import (
	"fmt"
	"sort"

	"github.com/spf13/viper"

	"github.com/andywolf/relnotes/internal/release"
)

// Config represents the full relnotes configuration
type Config struct {
	TemplateFile string                      `mapstructure:"template_file"`
	Repositories map[string]RepositoryConfig `mapstructure:"repositories"`
}

// RepositoryConfig identifies one repository and the refs to compare.
// The map key in Repositories is the repository's unique name.
type RepositoryConfig struct {
	Location   string `mapstructure:"location"`
	ReleaseRef string `mapstructure:"release_ref"`
	NextRef    string `mapstructure:"next_ref"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Repositories) == 0 {
		return fmt.Errorf("at least one repository is required")
	}

	for name, repo := range c.Repositories {
		if repo.Location == "" {
			return fmt.Errorf("repository %q: location is required", name)
		}
		if repo.ReleaseRef == "" {
			return fmt.Errorf("repository %q: release_ref is required", name)
		}
		if repo.NextRef == "" {
			return fmt.Errorf("repository %q: next_ref is required", name)
		}
	}

	return nil
}

// Repos returns the configured repositories sorted by name, so every run
// processes them in the same order.
func (c *Config) Repos() []release.Repo {
	repos := make([]release.Repo, 0, len(c.Repositories))
	for name, repo := range c.Repositories {
		repos = append(repos, release.Repo{
			Name:       name,
			Location:   repo.Location,
			ReleaseRef: repo.ReleaseRef,
			NextRef:    repo.NextRef,
		})
	}
	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	return repos
}
