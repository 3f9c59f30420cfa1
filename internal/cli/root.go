// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/config"
	"github.com/magpie-dev/magpie/internal/logging"
	"github.com/magpie-dev/magpie/internal/ui"
)

// ProductDirEnv overrides the product directory when the --dir flag is
// not given.
const ProductDirEnv = "MAGPIE_PRODUCT_DIR"

// DefaultProductDirName is the conventional product directory name.
const DefaultProductDirName = ".product"

var (
	// Global flags
	productDirFlag string
	configPath     string
	verbose        bool

	// Resolved values
	resolvedProductDir string
	cfg                *config.Config
	settings           *config.Settings
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "magpie",
	Short: "Magpie - A file-based product feedback tracker",
	Long: `Magpie tracks product feedback and backlog items as plain markdown files
with YAML frontmatter, organized into status directories. Every mutation
keeps a derived index.yaml in sync, and an integrity checker guards the
traceability chain from feedback to backlog to feature.

Like its namesake, it collects small shiny things and keeps a tidy nest.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(verbose)

		// Skip product dir resolution for commands that don't need one
		switch cmd.Name() {
		case "init", "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = loadGlobalConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.SetAccent(cfg.UI.Accent)

		// Resolve product dir: flag > environment > config > ./.product
		switch {
		case productDirFlag != "":
			resolvedProductDir = productDirFlag
		case os.Getenv(ProductDirEnv) != "":
			resolvedProductDir = os.Getenv(ProductDirEnv)
		case cfg.DefaultDir != "":
			resolvedProductDir = cfg.DefaultDir
		default:
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			resolvedProductDir = filepath.Join(cwd, DefaultProductDirName)
		}

		if _, err := os.Stat(resolvedProductDir); os.IsNotExist(err) {
			return fmt.Errorf("product directory not found at %s\n\nRun 'magpie init' to set it up", resolvedProductDir)
		}

		settings, err = config.LoadSettings(resolvedProductDir)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&productDirFlag, "dir", "d", "", "Path to the product directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

// getProductDir returns the resolved product directory.
func getProductDir() string {
	return resolvedProductDir
}

// getConfig returns the loaded global config.
func getConfig() *config.Config {
	return cfg
}

// getSettings returns the loaded per-product settings.
func getSettings() *config.Settings {
	if settings == nil {
		return &config.Settings{}
	}
	return settings
}

// displayDir renders a product directory path as users know it, e.g.
// ".product/".
func displayDir(productDir string) string {
	return filepath.Base(productDir) + "/"
}

func loadGlobalConfig() (*config.Config, error) {
	if strings.TrimSpace(configPath) != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}
