package check_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpie-dev/magpie/internal/check"
	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/testutil"
)

var checkNow = time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)

func runCheck(t *testing.T, p *testutil.TestProduct) *check.Report {
	t.Helper()
	report, err := check.Run(p.Path, check.Options{Now: checkNow})
	require.NoError(t, err)
	return report
}

func issueTypes(report *check.Report) []string {
	var types []string
	for _, issue := range report.Issues {
		types = append(types, issue.Type)
	}
	return types
}

func reindex(t *testing.T, p *testutil.TestProduct) {
	t.Helper()
	_, err := index.Rebuild(p.Path, checkNow)
	require.NoError(t, err)
}

func TestCheckCleanProduct(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("triaged", "FB-001",
			testutil.FeedbackLinkedBacklog("BL-001")).
		WithBacklog("open", "BL-001",
			testutil.BacklogFeedbacks("FB-001")).
		Build()
	reindex(t, p)

	report := runCheck(t, p)

	assert.True(t, report.OK)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 0, report.Summary.TotalIssues)
}

func TestCheckStatusDirDesync(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFile("feedbacks/new/FB-001.md", testutil.FeedbackFile("triaged", "FB-001")).
		Build()
	reindex(t, p)

	report := runCheck(t, p)

	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, check.TypeStatusDirDesync, issue.Type)
	assert.Equal(t, check.SeverityError, issue.Severity)
	assert.Equal(t, "FB-001", issue.ID)
	assert.Equal(t, "File in 'new/' but frontmatter status is 'triaged'", issue.Message)
	assert.Contains(t, issue.File, "feedbacks/new/FB-001.md")
}

func TestCheckStaleFeedback(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-01")).
		WithFeedback("new", "FB-002", testutil.FeedbackCreated("2026-01-25")).
		Build()
	reindex(t, p)

	report := runCheck(t, p)

	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, check.TypeStaleFeedback, issue.Type)
	assert.Equal(t, check.SeverityWarning, issue.Severity)
	assert.Equal(t, "FB-001", issue.ID)
	assert.Equal(t, 29, issue.DaysStale)
	assert.Equal(t, "Feedback in 'new' for 29 days (threshold: 14)", issue.Message)
}

func TestCheckStaleThresholdOption(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-25")).
		Build()
	reindex(t, p)

	report, err := check.Run(p.Path, check.Options{Now: checkNow, StaleDays: 3})
	require.NoError(t, err)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "Feedback in 'new' for 5 days (threshold: 3)", report.Issues[0].Message)
}

func TestCheckBrokenChainBothDirections(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("triaged", "FB-001",
			testutil.FeedbackLinkedBacklog("BL-999")).
		WithBacklog("open", "BL-001",
			testutil.BacklogFeedbacks("FB-888")).
		Build()
	reindex(t, p)

	report := runCheck(t, p)

	require.Len(t, report.Issues, 2)
	assert.Equal(t, check.TypeBrokenChain, report.Issues[0].Type)
	assert.Equal(t, "Feedback FB-001 links to non-existent backlog BL-999", report.Issues[0].Message)
	assert.Equal(t, check.TypeBrokenChain, report.Issues[1].Type)
	assert.Equal(t, "Backlog BL-001 links to non-existent feedback FB-888", report.Issues[1].Message)
	assert.Equal(t, 2, report.Summary.Errors)
}

func TestCheckStaleAndOrphanTogether(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-01")).
		WithBacklog("open", "BL-001").
		Build()
	reindex(t, p)

	report := runCheck(t, p)

	assert.False(t, report.OK)
	assert.ElementsMatch(t,
		[]string{check.TypeStaleFeedback, check.TypeOrphanedBacklog},
		issueTypes(report))
	assert.Equal(t, 2, report.Summary.Warnings)
	assert.Equal(t, 0, report.Summary.Errors)
}

func TestCheckOrphanOnlyFlagsOpen(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithBacklog("done", "BL-001").
		WithBacklog("cancelled", "BL-002").
		Build()
	reindex(t, p)

	report := runCheck(t, p)
	assert.NotContains(t, issueTypes(report), check.TypeOrphanedBacklog)
}

func TestCheckIndexDesyncMissingIndex(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-28")).
		Build()

	report := runCheck(t, p)

	require.Len(t, report.Issues, 1)
	issue := report.Issues[0]
	assert.Equal(t, check.TypeIndexDesync, issue.Type)
	assert.Equal(t, "index.yaml missing but 1 feedbacks and 0 backlogs found on disk", issue.Message)
}

func TestCheckIndexDesyncStaleCounts(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-28")).
		WithFeedback("new", "FB-002", testutil.FeedbackCreated("2026-01-28")).
		WithFile("index.yaml", "feedbacks:\n  total: 5\n\nbacklogs:\n  total: 0\n").
		Build()

	report := runCheck(t, p)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "index.yaml reports 5 feedbacks, 2 found on disk", report.Issues[0].Message)
}

func TestCheckIndexDesyncUnreadableTotalsIgnored(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithFeedback("new", "FB-001", testutil.FeedbackCreated("2026-01-28")).
		WithFile("index.yaml", "garbage content\n").
		Build()

	report := runCheck(t, p)
	assert.True(t, report.OK)
}

func TestCheckMissingIndexEmptyProductOK(t *testing.T) {
	p := testutil.NewTestProduct(t).Build()

	report := runCheck(t, p)
	assert.True(t, report.OK)
}

func TestGroupsCoverEveryRule(t *testing.T) {
	p := testutil.NewTestProduct(t).
		WithBacklog("open", "BL-001").
		Build()
	reindex(t, p)

	groups := runCheck(t, p).Groups()

	require.Len(t, groups, 5)
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Label)
	}
	assert.Equal(t, []string{
		"Status/directory sync",
		"Stale feedbacks",
		"Traceability chains",
		"Orphaned backlogs",
		"Index desync",
	}, labels)

	for _, g := range groups {
		if g.Type == check.TypeOrphanedBacklog {
			assert.Len(t, g.Issues, 1)
		} else {
			assert.Empty(t, g.Issues)
		}
	}
}
