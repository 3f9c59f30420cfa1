package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/ops"
	"github.com/magpie-dev/magpie/internal/ui"
)

var (
	triagePlanFlag  bool
	triageApplyFile string
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Triage new feedbacks into backlogs",
	Long: `Triage works in two phases. --plan prints a JSON skeleton listing every
feedback in new/ for a reviewer (usually an agent) to fill in. --apply
executes a completed plan: creating backlogs, linking feedbacks to
existing ones, or excluding them with a reason. A plan is validated in
full before anything is written.`,
	Example: `  magpie triage --plan > plan.json
  magpie triage --apply plan.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch {
		case triagePlanFlag && triageApplyFile != "":
			return handleErrorMsg(ErrInvalidInput,
				"--plan and --apply are mutually exclusive", "")
		case triagePlanFlag:
			return runTriagePlan()
		case triageApplyFile != "":
			return runTriageApply(triageApplyFile)
		default:
			return handleErrorMsg(ErrMissingArgument,
				"triage requires --plan or --apply <plan-file>", "")
		}
	},
}

func runTriagePlan() error {
	skeleton, err := ops.BuildPlanSkeleton(getProductDir(), time.Now())
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	// The skeleton is its own machine contract, printed with or without --json.
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(skeleton)
}

func runTriageApply(planFile string) error {
	plan, err := ops.LoadPlan(planFile)
	if err != nil {
		return handleError(ErrPlanInvalid, err, "")
	}

	if !isJSONOutput() {
		fmt.Println("Applying triage plan...")
	}

	result, err := ops.ApplyTriage(getProductDir(), plan, time.Now())
	if err != nil {
		var validationErr *ops.PlanValidationError
		if errors.As(err, &validationErr) {
			if isJSONOutput() {
				return handleErrorWithDetails(ErrValidationFailed,
					"triage plan rejected", "", validationErr.Problems)
			}
			for _, problem := range validationErr.Problems {
				fmt.Fprintf(os.Stderr, "Error: %s\n", problem)
			}
			os.Exit(1)
		}
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"feedbacks_processed": result.FeedbacksProcessed,
			"backlogs_created":    result.BacklogsCreated,
			"backlogs_linked":     result.BacklogsLinked,
		})
		return nil
	}

	for _, action := range result.Actions {
		fbNames := strings.Join(action.FeedbackIDs, ", ")
		switch action.Action {
		case ops.ActionCreateBacklog:
			fmt.Printf("  create_backlog: %q ← %s → %s %s\n",
				action.BacklogTitle, fbNames, ui.ID(action.BacklogID), ui.SymbolSuccess)
		case ops.ActionLinkExisting:
			fmt.Printf("  link_existing: %s ← %s %s\n",
				ui.ID(action.BacklogID), fbNames, ui.SymbolSuccess)
		case ops.ActionExclude:
			fmt.Printf("  exclude: %s (%s) %s\n", fbNames, action.Reason, ui.SymbolSuccess)
		}
	}
	fmt.Printf("  Updating index.yaml... %s\n", ui.SymbolSuccess)
	fmt.Println()
	fmt.Printf("Triage complete: %d feedbacks processed, %d %s created, %d linked.\n",
		result.FeedbacksProcessed,
		result.BacklogsCreated, ui.Pluralize("backlog", result.BacklogsCreated),
		result.BacklogsLinked)
	return nil
}

func init() {
	triageCmd.Flags().BoolVar(&triagePlanFlag, "plan", false, "Print a JSON plan skeleton of new feedbacks")
	triageCmd.Flags().StringVar(&triageApplyFile, "apply", "", "Apply a completed triage plan file")
	rootCmd.AddCommand(triageCmd)
}
