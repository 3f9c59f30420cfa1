package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magpie-dev/magpie/internal/frontmatter"
	"github.com/magpie-dev/magpie/internal/product"
	"github.com/magpie-dev/magpie/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Display a feedback or backlog item",
	Long: `Show looks up an entity by id (FB-... or BL-...) across every status
directory and renders it: frontmatter as a field list, body as markdown
when stdout is a terminal.`,
	Example: `  magpie show FB-102
  magpie show BL-007`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		entity, ok := findEntity(getProductDir(), id)
		if !ok {
			return handleErrorMsg(ErrEntityNotFound,
				fmt.Sprintf("%s not found in %s", id, displayDir(getProductDir())),
				"Ids look like FB-102 or BL-007")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"id":       entity.ID(),
				"kind":     entity.Kind.String(),
				"title":    entity.Title(),
				"status":   entity.Status(),
				"category": entity.Category(),
				"path":     entity.Path,
				"body":     entity.Body,
			})
			return nil
		}

		fmt.Println(ui.Header(entity.ID()) + "  " + entity.Title())
		fmt.Println(ui.Hint(entity.Path))
		fmt.Println()
		fmt.Println(frontmatter.Serialize(entity.Fields))

		body := strings.TrimSpace(entity.Body)
		if body == "" {
			return nil
		}
		fmt.Println()

		display := ui.NewDisplayContext()
		if display.IsTTY {
			rendered, err := ui.RenderMarkdown(body, display.AvailableWidth(ui.MarkdownRenderMargin))
			if err == nil {
				fmt.Print(rendered)
				return nil
			}
		}
		fmt.Println(body)
		return nil
	},
}

// findEntity probes feedbacks first, then backlogs, so ids of either kind
// resolve without the caller naming the family.
func findEntity(productDir, id string) (*product.Entity, bool) {
	if strings.HasPrefix(id, "BL-") {
		return product.FindBacklog(productDir, id)
	}
	if strings.HasPrefix(id, "FB-") {
		return product.FindFeedback(productDir, id)
	}
	if e, ok := product.FindFeedback(productDir, id); ok {
		return e, true
	}
	return product.FindBacklog(productDir, id)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
