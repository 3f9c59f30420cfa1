package ops

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/magpie-dev/magpie/internal/dates"
	"github.com/magpie-dev/magpie/internal/frontmatter"
	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
)

//go:embed plan.schema.json
var planSchemaJSON string

var planSchema = jsonschema.MustCompileString("plan.schema.json", planSchemaJSON)

// Plan actions.
const (
	ActionCreateBacklog = "create_backlog"
	ActionLinkExisting  = "link_existing"
	ActionExclude       = "exclude"
)

// Plan is a triage plan: a reviewed set of decisions over new feedbacks.
type Plan struct {
	Version string      `json:"version"`
	Plan    []PlanEntry `json:"plan"`
}

// PlanEntry is one triage decision.
type PlanEntry struct {
	Action       string   `json:"action"`
	FeedbackIDs  []string `json:"feedback_ids,omitempty"`
	BacklogTitle string   `json:"backlog_title,omitempty"`
	BacklogID    string   `json:"backlog_id,omitempty"`
	Category     string   `json:"category,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	Owner        string   `json:"owner,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Regression   bool     `json:"regression,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// PlanFeedback is one new feedback listed in a plan skeleton.
type PlanFeedback struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	Created string `json:"created"`
	DaysOld int    `json:"days_old"`
}

// PlanSkeleton is the read-only output of the plan phase: every feedback
// waiting in new/, plus an empty plan array for the reviewer to fill in.
type PlanSkeleton struct {
	Version     string         `json:"version"`
	GeneratedAt string         `json:"generated_at"`
	Feedbacks   []PlanFeedback `json:"feedbacks"`
	Plan        []PlanEntry    `json:"plan"`
}

// BuildPlanSkeleton collects the feedbacks currently sitting in new/.
func BuildPlanSkeleton(productDir string, now time.Time) (*PlanSkeleton, error) {
	skeleton := &PlanSkeleton{
		Version:     "1.0",
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Feedbacks:   []PlanFeedback{},
		Plan:        []PlanEntry{},
	}

	newDir := product.StatusDir(productDir, product.KindFeedback, product.StatusNew)
	entries, err := os.ReadDir(newDir)
	if err != nil {
		if os.IsNotExist(err) {
			return skeleton, nil
		}
		return nil, fmt.Errorf("read %s: %w", newDir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		fb, err := product.Load(filepath.Join(newDir, name), product.KindFeedback)
		if err != nil || fb.ID() == "" {
			continue
		}
		daysOld := 0
		if created, err := dates.Parse(fb.Created()); err == nil {
			daysOld = dates.DaysSince(now, created)
		}
		skeleton.Feedbacks = append(skeleton.Feedbacks, PlanFeedback{
			ID:      fb.ID(),
			Title:   fb.Title(),
			Body:    strings.TrimSpace(fb.Body),
			Created: fb.Created(),
			DaysOld: daysOld,
		})
	}
	return skeleton, nil
}

// LoadPlan reads and structurally validates a plan file. Semantic checks
// against the product directory happen in ValidatePlan.
func LoadPlan(path string) (*Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	if err := planSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}

	var plan Plan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return &plan, nil
}

// ValidatePlan runs the semantic checks a schema cannot express: version,
// duplicate feedback references, feedbacks actually waiting in new/, and
// per-action required fields. It returns every problem found, not just the
// first.
func ValidatePlan(plan *Plan, productDir string) []string {
	var problems []string

	if plan.Version != "1.0" {
		problems = append(problems, fmt.Sprintf("Invalid plan version: %q (expected \"1.0\")", plan.Version))
	}

	seen := make(map[string]bool)
	for i, entry := range plan.Plan {
		for _, fbID := range entry.FeedbackIDs {
			if seen[fbID] {
				problems = append(problems, fmt.Sprintf("Feedback %s appears in multiple plan entries", fbID))
			}
			seen[fbID] = true

			path := filepath.Join(product.StatusDir(productDir, product.KindFeedback, product.StatusNew), fbID+".md")
			if _, err := os.Stat(path); err != nil {
				problems = append(problems, fmt.Sprintf("Feedback %s not found in feedbacks/new/", fbID))
			}
		}

		switch entry.Action {
		case ActionCreateBacklog:
			if entry.BacklogTitle == "" {
				problems = append(problems, fmt.Sprintf("Plan entry %d: create_backlog requires backlog_title", i))
			}
		case ActionLinkExisting:
			if entry.BacklogID == "" {
				problems = append(problems, fmt.Sprintf("Plan entry %d: link_existing requires backlog_id", i))
			} else if _, ok := product.FindBacklog(productDir, entry.BacklogID); !ok {
				problems = append(problems, fmt.Sprintf("Backlog %s not found", entry.BacklogID))
			}
		case ActionExclude:
			if entry.Reason == "" {
				problems = append(problems, fmt.Sprintf("Plan entry %d: exclude requires reason", i))
			}
		}
	}
	return problems
}

// PlanValidationError carries every semantic problem in a rejected plan.
type PlanValidationError struct {
	Problems []string
}

func (e *PlanValidationError) Error() string {
	return fmt.Sprintf("invalid triage plan: %s", strings.Join(e.Problems, "; "))
}

// AppliedAction records one executed plan entry for reporting.
type AppliedAction struct {
	Action       string
	BacklogID    string
	BacklogTitle string
	FeedbackIDs  []string
	Reason       string
}

// TriageResult summarizes an applied plan.
type TriageResult struct {
	FeedbacksProcessed int
	BacklogsCreated    int
	BacklogsLinked     int
	Actions            []AppliedAction
}

// ApplyTriage validates the plan and executes it entry by entry, then
// rebuilds the index. Validation failures abort before any file changes.
func ApplyTriage(productDir string, plan *Plan, now time.Time) (*TriageResult, error) {
	if problems := ValidatePlan(plan, productDir); len(problems) > 0 {
		return nil, &PlanValidationError{Problems: problems}
	}

	today := dates.Today(now)
	result := &TriageResult{}

	nextNum := nextBacklogNumber(productDir)

	for _, entry := range plan.Plan {
		switch entry.Action {
		case ActionCreateBacklog:
			blID := product.FormatBacklogID(nextNum)
			nextNum++
			if err := createBacklog(productDir, blID, entry, today); err != nil {
				return nil, err
			}
			for _, fbID := range entry.FeedbackIDs {
				if err := triageFeedback(productDir, fbID, blID, today); err != nil {
					return nil, err
				}
				result.FeedbacksProcessed++
			}
			result.BacklogsCreated++
			result.Actions = append(result.Actions, AppliedAction{
				Action:       ActionCreateBacklog,
				BacklogID:    blID,
				BacklogTitle: entry.BacklogTitle,
				FeedbackIDs:  entry.FeedbackIDs,
			})

		case ActionLinkExisting:
			bl, ok := product.FindBacklog(productDir, entry.BacklogID)
			if !ok {
				continue
			}
			for _, fbID := range entry.FeedbackIDs {
				bl.AddFeedbackID(fbID)
			}
			bl.Touch(today)
			if err := bl.Save(); err != nil {
				return nil, err
			}
			for _, fbID := range entry.FeedbackIDs {
				if err := triageFeedback(productDir, fbID, entry.BacklogID, today); err != nil {
					return nil, err
				}
				result.FeedbacksProcessed++
			}
			result.BacklogsLinked++
			result.Actions = append(result.Actions, AppliedAction{
				Action:      ActionLinkExisting,
				BacklogID:   entry.BacklogID,
				FeedbackIDs: entry.FeedbackIDs,
			})

		case ActionExclude:
			for _, fbID := range entry.FeedbackIDs {
				if err := excludeFeedback(productDir, fbID, entry.Reason, today); err != nil {
					return nil, err
				}
				result.FeedbacksProcessed++
			}
			result.Actions = append(result.Actions, AppliedAction{
				Action:      ActionExclude,
				FeedbackIDs: entry.FeedbackIDs,
				Reason:      entry.Reason,
			})
		}
	}

	if _, err := index.Rebuild(productDir, now); err != nil {
		return nil, err
	}
	return result, nil
}

func createBacklog(productDir, blID string, entry PlanEntry, today string) error {
	category := entry.Category
	if category == "" {
		category = "new-feature"
	}
	priority := entry.Priority
	if priority == "" {
		priority = "medium"
	}

	fields := frontmatter.NewMapping()
	fields.Set("id", frontmatter.String(blID))
	fields.Set("title", frontmatter.String(entry.BacklogTitle))
	fields.Set("status", frontmatter.String(product.StatusOpen))
	fields.Set("category", frontmatter.String(category))
	fields.Set("priority", frontmatter.String(priority))
	fields.Set("created", frontmatter.String(today))
	fields.Set("updated", frontmatter.String(today))
	fields.Set("owner", frontmatter.String(entry.Owner))
	fields.Set("feedbacks", frontmatter.StringList(entry.FeedbackIDs))
	fields.Set("features", frontmatter.StringList(nil))
	fields.Set("tags", frontmatter.StringList(nil))

	promotion := fields.EnsureMapping("promotion")
	promotion.Set("promoted_date", frontmatter.String(""))
	promotion.Set("feature_id", frontmatter.String(""))
	cancellation := fields.EnsureMapping("cancellation")
	cancellation.Set("cancelled_date", frontmatter.String(""))
	cancellation.Set("reason", frontmatter.String(""))

	var parts []string
	if entry.Regression {
		parts = append(parts, "> **Regression**: This backlog tracks a regression.\n")
	}
	if entry.Notes != "" {
		parts = append(parts, entry.Notes)
	}
	body := "\n"
	if len(parts) > 0 {
		body = "\n" + strings.Join(parts, "\n") + "\n"
	}

	bl := &product.Entity{Kind: product.KindBacklog, Fields: fields, Body: body}

	dir := product.StatusDir(productDir, product.KindBacklog, product.StatusOpen)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	bl.Path = filepath.Join(dir, blID+".md")
	return bl.Save()
}

// triageFeedback moves a feedback to triaged/ and links it to its backlog.
func triageFeedback(productDir, fbID, blID, today string) error {
	fb, ok := product.FindFeedback(productDir, fbID)
	if !ok {
		return nil
	}
	fb.AddLinkedBacklog(blID)
	return relocate(productDir, fb, product.StatusTriaged, today)
}

// excludeFeedback moves a feedback to excluded/ with its reason recorded.
func excludeFeedback(productDir, fbID, reason, today string) error {
	fb, ok := product.FindFeedback(productDir, fbID)
	if !ok {
		return nil
	}
	fb.Fields.Set("exclusion_reason", frontmatter.String(reason))
	return relocate(productDir, fb, product.StatusExcluded, today)
}

var backlogFilePattern = regexp.MustCompile(`^BL-(\d+)\.md$`)

func nextBacklogNumber(productDir string) int {
	max := 0
	for _, status := range product.BacklogStatuses {
		entries, err := os.ReadDir(product.StatusDir(productDir, product.KindBacklog, status))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			match := backlogFilePattern.FindStringSubmatch(entry.Name())
			if match == nil {
				continue
			}
			if n, err := strconv.Atoi(match[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}
