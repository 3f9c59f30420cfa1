package ops_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpie-dev/magpie/internal/ops"
	"github.com/magpie-dev/magpie/internal/product"
	"github.com/magpie-dev/magpie/internal/testutil"
)

func writePlan(t *testing.T, plan any) string {
	t.Helper()
	data, err := json.MarshalIndent(plan, "", "  ")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestBuildPlanSkeleton(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001",
			testutil.FeedbackTitle("Login crash"),
			testutil.FeedbackCreated("2026-02-01")).
		WithFeedback("new", "FB-002",
			testutil.FeedbackCreated("2026-02-10")).
		WithFeedback("triaged", "FB-003").
		Build()

	skeleton, err := ops.BuildPlanSkeleton(p.Path, opsNow)
	require.NoError(t, err)

	assert.Equal(t, "1.0", skeleton.Version)
	assert.NotNil(t, skeleton.Plan)
	assert.Empty(t, skeleton.Plan)

	require.Len(t, skeleton.Feedbacks, 2)
	first := skeleton.Feedbacks[0]
	assert.Equal(t, "FB-001", first.ID)
	assert.Equal(t, "Login crash", first.Title)
	assert.Equal(t, "2026-02-01", first.Created)
	assert.Equal(t, 14, first.DaysOld)
	assert.Contains(t, first.Body, "Body of FB-001")
}

func TestBuildPlanSkeletonEmptyProduct(t *testing.T) {
	p := testutil.NewTestProduct(t).Build()

	skeleton, err := ops.BuildPlanSkeleton(p.Path, opsNow)
	require.NoError(t, err)
	assert.Empty(t, skeleton.Feedbacks)
}

func TestLoadPlanRejectsBadStructure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "1.0", "plan": [{"action": "demolish"}]}`), 0o644))

	_, err := ops.LoadPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid plan file")
}

func TestLoadPlanRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := ops.LoadPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read plan file")
}

func TestValidatePlanDuplicateFeedback(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-777").
		WithBacklog("open", "BL-001").
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{
			{Action: ops.ActionCreateBacklog, BacklogTitle: "First", FeedbackIDs: []string{"FB-777"}},
			{Action: ops.ActionLinkExisting, BacklogID: "BL-001", FeedbackIDs: []string{"FB-777"}},
		},
	}

	problems := ops.ValidatePlan(plan, p.Path)
	require.Len(t, problems, 1)
	assert.Equal(t, "Feedback FB-777 appears in multiple plan entries", problems[0])

	// Applying the same plan must refuse before touching anything.
	_, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.Error(t, err)
	var validationErr *ops.PlanValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, problems, validationErr.Problems)
	assert.True(t, p.FileExists("feedbacks/new/FB-777.md"))
}

func TestValidatePlanRules(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001").
		Build()

	plan := &ops.Plan{
		Version: "2.0",
		Plan: []ops.PlanEntry{
			{Action: ops.ActionCreateBacklog, FeedbackIDs: []string{"FB-001"}},
			{Action: ops.ActionLinkExisting, FeedbackIDs: []string{"FB-404"}},
			{Action: ops.ActionLinkExisting, BacklogID: "BL-404"},
			{Action: ops.ActionExclude},
		},
	}

	problems := ops.ValidatePlan(plan, p.Path)
	assert.Contains(t, problems, `Invalid plan version: "2.0" (expected "1.0")`)
	assert.Contains(t, problems, "Plan entry 0: create_backlog requires backlog_title")
	assert.Contains(t, problems, "Feedback FB-404 not found in feedbacks/new/")
	assert.Contains(t, problems, "Plan entry 1: link_existing requires backlog_id")
	assert.Contains(t, problems, "Backlog BL-404 not found")
	assert.Contains(t, problems, "Plan entry 3: exclude requires reason")
}

func TestApplyTriageCreateBacklog(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-010").
		WithFeedback("new", "FB-011").
		WithFeedback("new", "FB-012").
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{{
			Action:       ops.ActionCreateBacklog,
			BacklogTitle: "Unify login flow",
			Category:     "evolution",
			Priority:     "high",
			FeedbackIDs:  []string{"FB-010", "FB-011"},
		}},
	}

	result, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.NoError(t, err)

	assert.Equal(t, 2, result.FeedbacksProcessed)
	assert.Equal(t, 1, result.BacklogsCreated)
	assert.Equal(t, 0, result.BacklogsLinked)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, "BL-001", result.Actions[0].BacklogID)

	bl, ok := product.FindBacklog(p.Path, "BL-001")
	require.True(t, ok)
	assert.Equal(t, "open", bl.Status())
	assert.Equal(t, "Unify login flow", bl.Title())
	assert.Equal(t, "evolution", bl.Category())
	assert.Equal(t, []string{"FB-010", "FB-011"}, bl.FeedbackIDs())

	// Planned feedbacks moved to triaged/ with backlinks.
	for _, id := range []string{"FB-010", "FB-011"} {
		assert.False(t, p.FileExists("feedbacks/new/"+id+".md"))
		require.True(t, p.FileExists("feedbacks/triaged/"+id+".md"))
		fb, ok := product.FindFeedback(p.Path, id)
		require.True(t, ok)
		assert.Equal(t, []string{"BL-001"}, fb.LinkedBacklogs())
	}

	// Unplanned feedback stays put.
	assert.True(t, p.FileExists("feedbacks/new/FB-012.md"))
	assert.True(t, p.FileExists("index.yaml"))
}

func TestApplyTriageBacklogNumbersContinue(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001").
		WithBacklog("promoted", "BL-041").
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{{
			Action:       ops.ActionCreateBacklog,
			BacklogTitle: "Next one",
			FeedbackIDs:  []string{"FB-001"},
		}},
	}

	result, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.NoError(t, err)
	assert.Equal(t, "BL-042", result.Actions[0].BacklogID)
}

func TestApplyTriageLinkExisting(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-020").
		WithBacklog("open", "BL-005", testutil.BacklogFeedbacks("FB-019")).
		WithFeedback("triaged", "FB-019", testutil.FeedbackLinkedBacklog("BL-005")).
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{{
			Action:      ops.ActionLinkExisting,
			BacklogID:   "BL-005",
			FeedbackIDs: []string{"FB-020"},
		}},
	}

	result, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.BacklogsLinked)

	bl, _ := product.FindBacklog(p.Path, "BL-005")
	assert.Equal(t, []string{"FB-019", "FB-020"}, bl.FeedbackIDs())
	assert.Equal(t, "2026-02-15", bl.Fields.GetString("updated"))

	fb, ok := product.FindFeedback(p.Path, "FB-020")
	require.True(t, ok)
	assert.Equal(t, "triaged", fb.Status())
	assert.Equal(t, []string{"BL-005"}, fb.LinkedBacklogs())
}

func TestApplyTriageExclude(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-030").
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{{
			Action:      ops.ActionExclude,
			Reason:      "duplicate of FB-001",
			FeedbackIDs: []string{"FB-030"},
		}},
	}

	result, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.FeedbacksProcessed)

	require.True(t, p.FileExists("feedbacks/excluded/FB-030.md"))
	fb, _ := product.FindFeedback(p.Path, "FB-030")
	assert.Equal(t, "excluded", fb.Status())
	assert.Equal(t, "duplicate of FB-001", fb.Fields.GetString("exclusion_reason"))
}

func TestApplyTriageRegressionNote(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001").
		Build()

	plan := &ops.Plan{
		Version: "1.0",
		Plan: []ops.PlanEntry{{
			Action:       ops.ActionCreateBacklog,
			BacklogTitle: "Restore sort order",
			Regression:   true,
			Notes:        "Broke in v2.3.",
			FeedbackIDs:  []string{"FB-001"},
		}},
	}

	_, err := ops.ApplyTriage(p.Path, plan, opsNow)
	require.NoError(t, err)

	content := p.ReadFile("backlogs/open/BL-001.md")
	assert.Contains(t, content, "> **Regression**: This backlog tracks a regression.")
	assert.Contains(t, content, "Broke in v2.3.")
}

func TestLoadPlanRoundTrip(t *testing.T) {
	path := writePlan(t, map[string]any{
		"version": "1.0",
		"plan": []map[string]any{{
			"action":        "create_backlog",
			"backlog_title": "A title",
			"feedback_ids":  []string{"FB-001"},
		}},
	})

	plan, err := ops.LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", plan.Version)
	require.Len(t, plan.Plan, 1)
	assert.Equal(t, ops.ActionCreateBacklog, plan.Plan[0].Action)
	assert.Equal(t, "A title", plan.Plan[0].BacklogTitle)
}
