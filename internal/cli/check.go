package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/check"
	"github.com/magpie-dev/magpie/internal/ui"
)

var checkStaleDays int

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check product directory integrity",
	Long: `Check runs every integrity rule against the product directory: status
fields against directories, stale feedbacks, traceability chains in both
directions, orphaned backlogs, and index desync.

Exits non-zero when any issue is found.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := check.Options{StaleDays: checkStaleDays}
		if opts.StaleDays == 0 {
			opts.StaleDays = getSettings().StaleDays
		}

		report, err := check.Run(getProductDir(), opts)
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}

		if isJSONOutput() {
			// The report is its own machine contract, no envelope.
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printCheckReport(report)
		}

		if !report.OK {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			os.Exit(1)
		}
		return nil
	},
}

func printCheckReport(report *check.Report) {
	fmt.Println("Checking " + displayDir(getProductDir()) + " integrity...")
	fmt.Println()

	for _, group := range report.Groups() {
		if len(group.Issues) == 0 {
			fmt.Printf("  %s %s: OK\n", ui.SymbolSuccess, group.Label)
			continue
		}
		fmt.Printf("  %s %s: %d %s\n", ui.SymbolError, group.Label,
			len(group.Issues), ui.Pluralize("issue", len(group.Issues)))
		for _, issue := range group.Issues {
			fmt.Printf("    - %s\n", issue.Message)
		}
	}

	if report.Summary.TotalIssues > 0 {
		fmt.Println()
		fmt.Printf("%d %s found. ", report.Summary.TotalIssues,
			ui.Pluralize("issue", report.Summary.TotalIssues))
		fmt.Println(ui.Hint("Run 'magpie reindex' to fix index desync."))
	}
}

func init() {
	checkCmd.Flags().IntVar(&checkStaleDays, "stale-days", 0, "Staleness threshold for feedbacks in new/ (default 14)")
	rootCmd.AddCommand(checkCmd)
}
