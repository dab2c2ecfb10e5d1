package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize project configuration",
	Long: `Initialize relnotes configuration in the current directory.

This creates a .relnotes.yaml file with a starter repository entry that you
can customize.

Example:
  relnotes init
  relnotes init --repo-name app --location ../app`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("repo-name", "", "Name of the first repository entry")
	initCmd.Flags().String("location", ".", "Path to the repository on disk")
	initCmd.Flags().String("release-ref", "master", "Ref that has been released")
	initCmd.Flags().String("next-ref", "next", "Ref that has not been released")
	initCmd.Flags().String("template", "", "Template file for rendering")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

type repositoryEntry struct {
	Location   string `yaml:"location"`
	ReleaseRef string `yaml:"release_ref"`
	NextRef    string `yaml:"next_ref"`
}

type projectConfig struct {
	TemplateFile string                     `yaml:"template_file,omitempty"`
	Repositories map[string]repositoryEntry `yaml:"repositories"`
}

func initProject(cmd *cobra.Command, args []string) error {
	configPath := filepath.Join(".", ".relnotes.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	repoName, _ := cmd.Flags().GetString("repo-name")
	location, _ := cmd.Flags().GetString("location")
	releaseRef, _ := cmd.Flags().GetString("release-ref")
	nextRef, _ := cmd.Flags().GetString("next-ref")
	templateFile, _ := cmd.Flags().GetString("template")

	if repoName == "" {
		abs, err := filepath.Abs(location)
		if err != nil {
			return fmt.Errorf("failed to resolve location: %w", err)
		}
		repoName = filepath.Base(abs)
	}

	cfg := projectConfig{
		TemplateFile: templateFile,
		Repositories: map[string]repositoryEntry{
			repoName: {
				Location:   location,
				ReleaseRef: releaseRef,
				NextRef:    nextRef,
			},
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n", configPath)
	return nil
}
