package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh slash commands and entity templates",
	Long: `Update reinstalls the embedded slash-command files and entity templates
without modifying any feedback, backlog, inbox, or index data.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		productDir := getProductDir()
		repoRoot := filepath.Dir(productDir)

		fmt.Println()
		fmt.Println("  magpie update")
		fmt.Println()

		fmt.Println("  Updating entity templates...")
		if err := installCoreTemplates(productDir); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		fmt.Println("  Updating slash commands...")
		if err := installCommandTemplates(repoRoot); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		fmt.Println()
		fmt.Println("  " + ui.Success("Done! Commands and templates updated."))
		fmt.Println("  Your feedbacks, backlogs, inbox, and index.yaml are untouched.")
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
