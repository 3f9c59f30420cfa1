package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
	"github.com/magpie-dev/magpie/internal/templates"
	"github.com/magpie-dev/magpie/internal/ui"
)

var initYes bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold the product directory and install slash commands",
	Long: `Init creates the .product/ directory tree (all status directories, inbox,
and entity templates), writes an empty index.yaml, and installs the
assistant slash-command files under .claude/commands/.

Existing entities and an existing index.yaml are never touched; init is
safe to re-run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		productDir := productDirFlag
		if productDir == "" {
			productDir = os.Getenv(ProductDirEnv)
		}
		if productDir == "" {
			productDir = filepath.Join(cwd, DefaultProductDirName)
		}
		repoRoot := filepath.Dir(productDir)

		fmt.Println()
		fmt.Println("  magpie init")
		fmt.Println()

		hasProduct := exists(productDir)
		hasFeatures := exists(filepath.Join(repoRoot, ".features"))
		hasCommands := exists(filepath.Join(repoRoot, ".claude", "commands"))

		fmt.Println("  Environment detected:")
		fmt.Printf("    %s:  %s\n", filepath.Base(productDir)+"/", yesNo(hasProduct))
		fmt.Printf("    .features/: %s\n", yesNo(hasFeatures))
		fmt.Printf("    commands:   %s\n", yesNo(hasCommands))
		fmt.Println()

		if !initYes {
			if !confirm("  This will scaffold the product directory and install slash commands. Continue? (y/N) ") {
				fmt.Println("  Aborted.")
				return nil
			}
		}

		fmt.Println("  [1/3] Creating directory structure...")
		for _, status := range product.FeedbackStatuses {
			dir := product.StatusDir(productDir, product.KindFeedback, status)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			fmt.Printf("    create feedbacks/%s/\n", status)
		}
		for _, status := range product.BacklogStatuses {
			dir := product.StatusDir(productDir, product.KindBacklog, status)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			fmt.Printf("    create backlogs/%s/\n", status)
		}
		if err := os.MkdirAll(filepath.Join(productDir, "inbox"), 0o755); err != nil {
			return err
		}
		fmt.Println("    create inbox/")

		if err := installCoreTemplates(productDir); err != nil {
			return err
		}

		indexPath := filepath.Join(productDir, index.FileName)
		if exists(indexPath) {
			fmt.Printf("    skip %s (already exists)\n", index.FileName)
		} else {
			if _, err := index.Rebuild(productDir, time.Now()); err != nil {
				return err
			}
			fmt.Printf("    write %s\n", index.FileName)
		}

		fmt.Println("  [2/3] Installing slash commands...")
		if err := installCommandTemplates(repoRoot); err != nil {
			return err
		}

		fmt.Println("  [3/3] Verifying installation...")
		if !hasFeatures {
			fmt.Println(ui.Hint("    note: .features/ not found - promote requires the feature lifecycle system"))
		}

		fmt.Println()
		fmt.Println("  " + ui.Success("Done! Magpie installed."))
		fmt.Println()
		fmt.Println("  Next steps:")
		fmt.Println("    1. Capture feedback into feedbacks/new/ (see /product.intake)")
		fmt.Println("    2. Run 'magpie triage --plan' to process new feedbacks")
		fmt.Println("    3. Run 'magpie check' for an integrity overview")
		fmt.Println()
		return nil
	},
}

func installCoreTemplates(productDir string) error {
	templatesDir := filepath.Join(productDir, "_templates")
	if err := os.MkdirAll(templatesDir, 0o755); err != nil {
		return err
	}
	files, err := templates.Core()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(templatesDir, f.Name), f.Content, 0o644); err != nil {
			return err
		}
		fmt.Printf("    write _templates/%s\n", f.Name)
	}
	return nil
}

func installCommandTemplates(repoRoot string) error {
	commandsDir := filepath.Join(repoRoot, ".claude", "commands")
	if err := os.MkdirAll(commandsDir, 0o755); err != nil {
		return err
	}
	files, err := templates.Commands()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(commandsDir, f.Name), f.Content, 0o644); err != nil {
			return err
		}
		fmt.Printf("    write .claude/commands/%s\n", f.Name)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func confirm(question string) bool {
	fmt.Print(question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(initCmd)
}
