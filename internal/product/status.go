// Package product models the on-disk feedback and backlog corpus: Markdown
// entities with frontmatter, laid out under status subdirectories.
package product

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// Kind discriminates the two entity schemas.
type Kind int

const (
	KindFeedback Kind = iota
	KindBacklog
)

func (k Kind) String() string {
	if k == KindBacklog {
		return "backlog"
	}
	return "feedback"
}

// Dir returns the entity family's top-level directory name.
func (k Kind) Dir() string {
	if k == KindBacklog {
		return "backlogs"
	}
	return "feedbacks"
}

// Feedback lifecycle statuses. Each one maps to a subdirectory of feedbacks/.
const (
	StatusNew      = "new"
	StatusTriaged  = "triaged"
	StatusExcluded = "excluded"
	StatusResolved = "resolved"
)

// Backlog lifecycle statuses. Each one maps to a subdirectory of backlogs/.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
	StatusPromoted   = "promoted"
	StatusCancelled  = "cancelled"
)

// FeedbackStatuses lists feedback statuses in canonical order. The order
// matters: scans, index sections, and lookups all walk it front to back.
var FeedbackStatuses = []string{StatusNew, StatusTriaged, StatusExcluded, StatusResolved}

// BacklogStatuses lists backlog statuses in canonical order.
var BacklogStatuses = []string{StatusOpen, StatusInProgress, StatusDone, StatusPromoted, StatusCancelled}

// Categories lists the fixed category vocabulary shared by both kinds.
var Categories = []string{"critical-bug", "bug", "optimization", "evolution", "new-feature"}

// Statuses returns the canonical status list for the kind.
func Statuses(k Kind) []string {
	if k == KindBacklog {
		return BacklogStatuses
	}
	return FeedbackStatuses
}

// ValidStatus reports whether s is a recognized status for the kind.
func ValidStatus(k Kind, s string) bool {
	for _, known := range Statuses(k) {
		if s == known {
			return true
		}
	}
	return false
}

// StatusDir returns the directory holding entities of the given kind and
// status, e.g. <root>/backlogs/open.
func StatusDir(root string, k Kind, status string) string {
	return filepath.Join(root, k.Dir(), status)
}

// NumericID extracts the first run of digits in an entity id, so "FB-102"
// yields 102. IDs with no digits sort as 0, ahead of everything numbered.
func NumericID(id string) int {
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			continue
		}
		j := i + 1
		for j < len(id) && id[j] >= '0' && id[j] <= '9' {
			j++
		}
		n, _ := strconv.Atoi(id[i:j])
		return n
	}
	return 0
}

// FormatBacklogID renders a backlog id with the canonical zero padding.
func FormatBacklogID(n int) string {
	return fmt.Sprintf("BL-%03d", n)
}
