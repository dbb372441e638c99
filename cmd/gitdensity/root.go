package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	format  string
	output  string
	verbose bool

	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:     "gitdensity",
	Short:   "Mines a git repository's commit history into per-commit change and effort records",
	Version: version,
	Long: `gitdensity walks a repository's commit history, decomposes each
commit's unified diff into hunks/blocks/lines, scores changed regions
against a similarity catalog, overlays clone-detection results, and
estimates developer effort-hours from commit session timing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug-level logging")
}
