package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Regenerate index.yaml from a filesystem scan",
	Long: `Reindex scans every status directory and rewrites index.yaml from
scratch. The index is purely derived data, so reindex is always safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		productDir := getProductDir()

		if !isJSONOutput() {
			fmt.Println("Scanning " + displayDir(productDir) + "...")
		}

		doc, err := index.Rebuild(productDir, time.Now())
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"feedbacks": doc.Feedbacks.Total,
				"backlogs":  doc.Backlogs.Total,
			})
			return nil
		}

		fmt.Printf("  feedbacks: %d (%s)\n", doc.Feedbacks.Total,
			statusSummary(product.FeedbackStatuses, doc.Feedbacks.ByStatus))
		fmt.Printf("  backlogs:  %d (%s)\n", doc.Backlogs.Total,
			statusSummary(product.BacklogStatuses, doc.Backlogs.ByStatus))
		fmt.Println(index.FileName + " updated.")
		return nil
	},
}

func statusSummary(statuses []string, counts map[string]int) string {
	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%s: %d", status, counts[status]))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(reindexCmd)
}
