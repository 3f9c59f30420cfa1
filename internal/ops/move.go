package ops

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/magpie-dev/magpie/internal/dates"
	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
)

// MovedItem records one backlog's status transition.
type MovedItem struct {
	ID   string
	From string
	To   string
}

// MoveResult summarizes a move run.
type MoveResult struct {
	Moved []MovedItem
	// Skipped lists ids that already sat at the target status.
	Skipped []string
}

// Move transitions the given backlog ids to targetStatus. Validation is
// all-or-nothing: an invalid status or any missing id fails the whole call
// before a single file is touched. Items already at the target are skipped;
// if nothing actually moves, no file is written and the index stays as-is.
func Move(productDir string, ids []string, targetStatus string, now time.Time) (*MoveResult, error) {
	if !product.ValidStatus(product.KindBacklog, targetStatus) {
		return nil, fmt.Errorf("invalid status '%s'. Must be one of: %s",
			targetStatus, strings.Join(product.BacklogStatuses, ", "))
	}

	var found []*product.Entity
	var missing []string
	for _, id := range ids {
		if bl, ok := product.FindBacklog(productDir, id); ok {
			found = append(found, bl)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%s not found in %s/backlogs/",
			strings.Join(missing, ", "), filepath.Base(productDir))
	}

	result := &MoveResult{}
	var toMove []*product.Entity
	for _, bl := range found {
		if bl.Status() == targetStatus {
			result.Skipped = append(result.Skipped, bl.ID())
		} else {
			toMove = append(toMove, bl)
		}
	}
	if len(toMove) == 0 {
		return result, nil
	}

	today := dates.Today(now)
	for _, bl := range toMove {
		from := bl.Status()
		if err := relocate(productDir, bl, targetStatus, today); err != nil {
			return nil, err
		}
		result.Moved = append(result.Moved, MovedItem{ID: bl.ID(), From: from, To: targetStatus})
	}

	if _, err := index.Rebuild(productDir, now); err != nil {
		return nil, err
	}
	return result, nil
}
