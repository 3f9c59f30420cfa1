package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/ops"
	"github.com/magpie-dev/magpie/internal/ui"
)

var promoteCmd = &cobra.Command{
	Use:   "promote <backlog-id>",
	Short: "Promote a backlog item to a feature",
	Long: `Promote graduates a backlog item into a numbered feature: it writes the
feature YAML under .features/, moves the backlog to promoted/, backlinks
every aggregated feedback, and refreshes index.yaml.`,
	Example: `  magpie promote BL-007`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backlogID := args[0]
		opts := ops.PromoteOptions{Now: time.Now()}
		if dir := featuresDirOverride(); dir != "" {
			opts.FeaturesDir = dir
		}

		if !isJSONOutput() {
			fmt.Printf("Promoting %s...\n", ui.ID(backlogID))
		}

		result, err := ops.Promote(getProductDir(), backlogID, opts)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"backlog_id":        result.BacklogID,
				"feature_id":        result.FeatureID,
				"feature_path":      result.FeaturePath,
				"updated_feedbacks": result.UpdatedFeedbacks,
			})
			return nil
		}

		fmt.Printf("  Next feature number: %s\n", result.FeatureNumber)
		fmt.Printf("  Feature ID: %s\n", ui.ID(result.FeatureID))
		fmt.Printf("  Creating %s... %s\n", result.FeaturePath, ui.SymbolSuccess)
		fmt.Printf("  Moving %s to promoted/... %s\n", backlogID, ui.SymbolSuccess)
		for _, fbID := range result.UpdatedFeedbacks {
			fmt.Printf("  Updating %s (linked feedback)... %s\n", fbID, ui.SymbolSuccess)
		}
		fmt.Printf("  Updating index.yaml... %s\n", ui.SymbolSuccess)
		fmt.Println()
		fmt.Printf("Promoted: %s → %s\n", backlogID, result.FeatureID)
		return nil
	},
}

// featuresDirOverride resolves the features directory from settings or the
// global config, leaving the default in place when neither opines.
func featuresDirOverride() string {
	if dir := getSettings().FeaturesDir; dir != "" {
		if !filepath.IsAbs(dir) {
			return filepath.Join(filepath.Dir(getProductDir()), dir)
		}
		return dir
	}
	return getConfig().FeaturesDir
}

func init() {
	rootCmd.AddCommand(promoteCmd)
}
