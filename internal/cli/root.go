package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andywolf/relnotes/internal/version"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "relnotes",
	Short: "relnotes - Release notes from git history and Shortcut stories",
	Long: `relnotes generates release notes by correlating git commit history with
Shortcut stories and epics.

Given one or more repositories, each with a released ref and a next ref, it
finds the commits only present on the next ref, extracts [sc-<id>] story tags
from their messages, resolves the stories and their epics through the
Shortcut API, and renders the result through a template.

Example:
  relnotes generate --version-label 3.4.0 --name 'Super release' notes.md`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .relnotes.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".relnotes")
	}

	viper.SetEnvPrefix("RELNOTES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
