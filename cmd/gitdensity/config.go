package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/mrshoenel/git-density/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Shows the merged configuration from defaults and config file.

Examples:
  gitdensity config show                     # show effective config
  gitdensity config show -c gitdensity.toml  # show config from a specific file`,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Validates a gitdensity configuration file for syntax errors and
invalid values (languages, measurement names, duplicate hours
configurations, temp_dir).

Examples:
  gitdensity config validate                     # validate default config locations
  gitdensity config validate -c gitdensity.toml  # validate a specific file`,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func loadOpts() []config.LoadOption {
	var opts []config.LoadOption
	if cfgFile != "" {
		opts = append(opts, config.WithPath(cfgFile))
	}
	return opts
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	result, err := config.LoadConfig(loadOpts()...)
	if err != nil {
		return err
	}

	if result.Source != "" {
		fmt.Printf("# Configuration from: %s\n\n", result.Source)
	} else {
		fmt.Println("# Default configuration (no config file found)")
	}

	content, err := toml.Marshal(result.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Print(string(content))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	result, err := config.LoadConfig(loadOpts()...)
	if err != nil {
		color.Red("configuration invalid:")
		fmt.Printf("  - %s\n", err)
		return err
	}

	if result.Source != "" {
		color.Green("configuration valid: %s", result.Source)
	} else {
		color.Yellow("no config file found, default configuration is valid")
	}
	return nil
}
