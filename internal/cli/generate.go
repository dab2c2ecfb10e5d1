package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/andywolf/relnotes/internal/config"
	"github.com/andywolf/relnotes/internal/release"
	"github.com/andywolf/relnotes/internal/render"
	"github.com/andywolf/relnotes/internal/shortcut"
)

var generateCmd = &cobra.Command{
	Use:   "generate [output-file]",
	Short: "Generate release notes",
	Long: `Generate release notes for the repositories in the configuration.

For every configured repository the commits present on next_ref but not on
release_ref are collected, story tags are extracted from their messages, the
stories and their epics are resolved through the Shortcut API, and the result
is rendered to the output file.

The Shortcut API token is read from the SHORTCUT_TOKEN environment variable;
a .env file in the current directory is honored.

Example:
  relnotes generate --version-label 3.4.0 --name 'Super release' notes.md`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().String("name", "", "Name of the release")
	generateCmd.Flags().String("version-label", "", "Version to release")
	generateCmd.Flags().String("description", "", "Description of the release")
	generateCmd.Flags().Int64Slice("exclude-story-id", nil, "Story id to exclude, can be repeated")
	generateCmd.Flags().StringSlice("exclude-story-label", nil, "Story label to exclude, can be repeated; wins over --include-story-label")
	generateCmd.Flags().StringSlice("include-story-label", nil, "Story label to include, can be repeated")
	generateCmd.Flags().Bool("exclude-unparsed-commits", false, "Leave commits without a story tag out of the notes")
	generateCmd.Flags().String("dump-snapshot", "", "Also write the assembled snapshot as YAML to this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal, aborting...")
		cancel()
	}()

	_ = godotenv.Load()
	token := os.Getenv("SHORTCUT_TOKEN")
	if token == "" {
		return fmt.Errorf("missing SHORTCUT_TOKEN environment variable (set it or provide a .env file)")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	renderer, err := render.NewFromFile(cfg.TemplateFile)
	if err != nil {
		return err
	}

	excludeIDs, _ := cmd.Flags().GetInt64Slice("exclude-story-id")
	excludeLabels, _ := cmd.Flags().GetStringSlice("exclude-story-label")
	includeLabels, _ := cmd.Flags().GetStringSlice("include-story-label")
	dropUnparsed, _ := cmd.Flags().GetBool("exclude-unparsed-commits")

	runID := uuid.New().String()[:8]
	logger := log.New(os.Stderr, fmt.Sprintf("[relnotes %s] ", runID), log.LstdFlags)
	if !viper.GetBool("verbose") {
		logger.SetFlags(0)
	}

	pipeline := &release.Pipeline{
		Repos:  cfg.Repos(),
		Filter: release.Filter{
			ExcludedIDs:    excludeIDs,
			ExcludedLabels: excludeLabels,
			IncludedLabels: includeLabels,
			DropUnparsed:   dropUnparsed,
		},
		Tracker: shortcut.NewClient(token),
		Logger:  logger,
	}

	name, _ := cmd.Flags().GetString("name")
	versionLabel, _ := cmd.Flags().GetString("version-label")
	description, _ := cmd.Flags().GetString("description")

	snapshot, err := pipeline.Run(ctx, release.Meta{
		Name:        name,
		Version:     versionLabel,
		Description: description,
	})
	if err != nil {
		return err
	}

	printSummary(snapshot)

	if dumpPath, _ := cmd.Flags().GetString("dump-snapshot"); dumpPath != "" {
		data, err := yaml.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", err)
		}
		if err := os.WriteFile(dumpPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write snapshot: %w", err)
		}
	}

	outputFile := args[0]
	if err := renderer.RenderToFile(snapshot, outputFile); err != nil {
		return err
	}

	fmt.Printf("Wrote release notes to %s\n", outputFile)
	return nil
}

func printSummary(snap *release.Snapshot) {
	fmt.Printf("Total stories: %d\n", len(snap.Stories))
	fmt.Printf("Total epics: %d\n", len(snap.Epics))
	for repo, commits := range snap.UnparsedCommits {
		if len(commits) > 0 {
			fmt.Printf("Unparsed commits in %s: %d\n", repo, len(commits))
		}
	}
}
