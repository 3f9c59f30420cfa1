package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/ops"
	"github.com/magpie-dev/magpie/internal/product"
	"github.com/magpie-dev/magpie/internal/ui"
)

var moveCmd = &cobra.Command{
	Use:   "move <ids> <status>",
	Short: "Move backlog item(s) to a new status",
	Long: `Move transitions one or more backlog items (comma-separated ids) to a
target status and refreshes index.yaml. Validation is all-or-nothing: if
any id is missing nothing moves.

Valid statuses: ` + strings.Join(product.BacklogStatuses, ", ") + `.`,
	Example: `  magpie move BL-001 done
  magpie move BL-001,BL-002 in-progress`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := splitIDs(args[0])
		targetStatus := args[1]
		if len(ids) == 0 {
			return handleErrorMsg(ErrMissingArgument,
				"move requires at least one backlog id",
				"Usage: magpie move BL-001,BL-002 done")
		}

		result, err := ops.Move(getProductDir(), ids, targetStatus, time.Now())
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if isJSONOutput() {
			outputSuccess(moveData(result, targetStatus))
			return nil
		}

		for _, id := range result.Skipped {
			fmt.Printf("%s is already in status '%s'. No changes made.\n", id, targetStatus)
		}
		if len(result.Moved) == 0 {
			return nil
		}

		fmt.Printf("Moving %s to %s...\n", strings.Join(movedIDs(result), ", "), targetStatus)
		for _, item := range result.Moved {
			fmt.Printf("  %s: %s → %s %s\n", ui.ID(item.ID), item.From, item.To, ui.SymbolSuccess)
		}
		fmt.Println("Updating index.yaml... done")
		return nil
	},
}

func splitIDs(arg string) []string {
	var ids []string
	for _, part := range strings.Split(arg, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func movedIDs(result *ops.MoveResult) []string {
	ids := make([]string, 0, len(result.Moved))
	for _, item := range result.Moved {
		ids = append(ids, item.ID)
	}
	return ids
}

func moveData(result *ops.MoveResult, targetStatus string) map[string]interface{} {
	moved := make([]map[string]string, 0, len(result.Moved))
	for _, item := range result.Moved {
		moved = append(moved, map[string]string{
			"id":   item.ID,
			"from": item.From,
			"to":   item.To,
		})
	}
	return map[string]interface{}{
		"target":  targetStatus,
		"moved":   moved,
		"skipped": result.Skipped,
	}
}

func init() {
	rootCmd.AddCommand(moveCmd)
}
