// Package ops implements the mutating workflows: moving backlogs between
// statuses, promoting backlogs to features, and applying triage plans.
// Every workflow finishes by rebuilding index.yaml.
package ops

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magpie-dev/magpie/internal/product"
)

// relocate rewrites an entity's status and updated fields and moves its
// file into the target status directory. The new file is written before
// the old one is removed, so a crash leaves at worst a duplicate, never a
// lost entity.
func relocate(productDir string, e *product.Entity, targetStatus, today string) error {
	e.SetStatus(targetStatus)
	e.Touch(today)

	newDir := product.StatusDir(productDir, e.Kind, targetStatus)
	if err := os.MkdirAll(newDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", newDir, err)
	}
	newPath := filepath.Join(newDir, e.ID()+".md")

	if err := os.WriteFile(newPath, []byte(e.Render()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", newPath, err)
	}
	if e.Path != "" && e.Path != newPath {
		if err := os.Remove(e.Path); err != nil {
			return fmt.Errorf("remove %s: %w", e.Path, err)
		}
	}
	e.Path = newPath
	return nil
}
