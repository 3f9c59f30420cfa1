// Package check validates the integrity of a product directory: status
// fields against directories, traceability links, staleness, and the
// derived index.
package check

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/magpie-dev/magpie/internal/dates"
	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
)

// Severity distinguishes blocking problems from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue types, stable identifiers for machine consumers.
const (
	TypeStatusDirDesync = "status_dir_desync"
	TypeStaleFeedback   = "stale_feedback"
	TypeBrokenChain     = "broken_chain"
	TypeOrphanedBacklog = "orphaned_backlog"
	TypeIndexDesync     = "index_desync"
)

// Issue is one integrity finding.
type Issue struct {
	Type      string   `json:"type"`
	Severity  Severity `json:"severity"`
	ID        string   `json:"id,omitempty"`
	File      string   `json:"file,omitempty"`
	Message   string   `json:"message"`
	DaysStale int      `json:"days_stale,omitempty"`
}

// Summary aggregates issue counts.
type Summary struct {
	TotalIssues int `json:"total_issues"`
	Warnings    int `json:"warnings"`
	Errors      int `json:"errors"`
}

// Report is the full check result, shaped for JSON output.
type Report struct {
	Version   string  `json:"version"`
	CheckedAt string  `json:"checked_at"`
	OK        bool    `json:"ok"`
	Issues    []Issue `json:"issues"`
	Summary   Summary `json:"summary"`
}

// Options tunes a check run.
type Options struct {
	// StaleDays is the new/ age threshold, defaulting to 14.
	StaleDays int
	// Now anchors staleness and the report timestamp. Zero means time.Now.
	Now time.Time
}

// DefaultStaleDays is how long a feedback may sit in new/ before it is
// flagged.
const DefaultStaleDays = 14

// Run executes every integrity rule against the product directory.
func Run(productDir string, opts Options) (*Report, error) {
	if opts.StaleDays <= 0 {
		opts.StaleDays = DefaultStaleDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	scan, err := product.Scan(productDir)
	if err != nil {
		return nil, err
	}

	issues := []Issue{}
	issues = append(issues, checkStatusDirSync(productDir, scan)...)
	issues = append(issues, checkStaleFeedbacks(productDir, scan, opts)...)
	issues = append(issues, checkTraceability(productDir, scan)...)
	issues = append(issues, checkOrphanedBacklogs(productDir, scan)...)
	issues = append(issues, checkIndexSync(productDir, scan)...)

	report := &Report{
		Version:   "1.0",
		CheckedAt: opts.Now.UTC().Format(time.RFC3339),
		OK:        len(issues) == 0,
		Issues:    issues,
	}
	report.Summary.TotalIssues = len(issues)
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}
	return report, nil
}

func checkStatusDirSync(productDir string, scan *product.ScanResult) []Issue {
	var issues []Issue
	for _, e := range scan.All() {
		dirStatus := filepath.Base(filepath.Dir(e.Path))
		if e.Status() != dirStatus {
			issues = append(issues, Issue{
				Type:     TypeStatusDirDesync,
				Severity: SeverityError,
				ID:       e.ID(),
				File:     displayPath(productDir, e.Path),
				Message:  fmt.Sprintf("File in '%s/' but frontmatter status is '%s'", dirStatus, e.Status()),
			})
		}
	}
	return issues
}

func checkStaleFeedbacks(productDir string, scan *product.ScanResult, opts Options) []Issue {
	var issues []Issue
	for _, fb := range scan.Feedbacks {
		if fb.Status() != product.StatusNew || fb.Created() == "" {
			continue
		}
		created, err := dates.Parse(fb.Created())
		if err != nil {
			continue
		}
		days := dates.DaysSince(opts.Now, created)
		if days >= opts.StaleDays {
			issues = append(issues, Issue{
				Type:      TypeStaleFeedback,
				Severity:  SeverityWarning,
				ID:        fb.ID(),
				File:      displayPath(productDir, fb.Path),
				Message:   fmt.Sprintf("Feedback in 'new' for %d days (threshold: %d)", days, opts.StaleDays),
				DaysStale: days,
			})
		}
	}
	return issues
}

func checkTraceability(productDir string, scan *product.ScanResult) []Issue {
	feedbackIDs := make(map[string]bool, len(scan.Feedbacks))
	for _, fb := range scan.Feedbacks {
		feedbackIDs[fb.ID()] = true
	}
	backlogIDs := make(map[string]bool, len(scan.Backlogs))
	for _, bl := range scan.Backlogs {
		backlogIDs[bl.ID()] = true
	}

	var issues []Issue
	for _, fb := range scan.Feedbacks {
		for _, blID := range fb.LinkedBacklogs() {
			if !backlogIDs[blID] {
				issues = append(issues, Issue{
					Type:     TypeBrokenChain,
					Severity: SeverityError,
					ID:       fb.ID(),
					File:     displayPath(productDir, fb.Path),
					Message:  fmt.Sprintf("Feedback %s links to non-existent backlog %s", fb.ID(), blID),
				})
			}
		}
	}
	for _, bl := range scan.Backlogs {
		for _, fbID := range bl.FeedbackIDs() {
			if !feedbackIDs[fbID] {
				issues = append(issues, Issue{
					Type:     TypeBrokenChain,
					Severity: SeverityError,
					ID:       bl.ID(),
					File:     displayPath(productDir, bl.Path),
					Message:  fmt.Sprintf("Backlog %s links to non-existent feedback %s", bl.ID(), fbID),
				})
			}
		}
	}
	return issues
}

func checkOrphanedBacklogs(productDir string, scan *product.ScanResult) []Issue {
	var issues []Issue
	for _, bl := range scan.Backlogs {
		if bl.Status() == product.StatusOpen && len(bl.FeedbackIDs()) == 0 {
			issues = append(issues, Issue{
				Type:     TypeOrphanedBacklog,
				Severity: SeverityWarning,
				ID:       bl.ID(),
				File:     displayPath(productDir, bl.Path),
				Message:  fmt.Sprintf("Backlog %s in 'open' with no linked feedbacks", bl.ID()),
			})
		}
	}
	return issues
}

// totalPattern is deliberately loose: it must cope with hand-edited or
// partially corrupt index files and only opine on a cleanly readable total.
var totalPattern = `%s:\s*\n\s*total:\s*(\d+)`

func checkIndexSync(productDir string, scan *product.ScanResult) []Issue {
	content, err := os.ReadFile(filepath.Join(productDir, index.FileName))
	if err != nil {
		if len(scan.Feedbacks) > 0 || len(scan.Backlogs) > 0 {
			return []Issue{{
				Type:     TypeIndexDesync,
				Severity: SeverityError,
				Message: fmt.Sprintf("index.yaml missing but %d feedbacks and %d backlogs found on disk",
					len(scan.Feedbacks), len(scan.Backlogs)),
			}}
		}
		return nil
	}

	var issues []Issue
	if total := parseIndexTotal(string(content), "feedbacks"); total != nil && *total != len(scan.Feedbacks) {
		issues = append(issues, Issue{
			Type:     TypeIndexDesync,
			Severity: SeverityError,
			Message: fmt.Sprintf("index.yaml reports %d feedbacks, %d found on disk",
				*total, len(scan.Feedbacks)),
		})
	}
	if total := parseIndexTotal(string(content), "backlogs"); total != nil && *total != len(scan.Backlogs) {
		issues = append(issues, Issue{
			Type:     TypeIndexDesync,
			Severity: SeverityError,
			Message: fmt.Sprintf("index.yaml reports %d backlogs, %d found on disk",
				*total, len(scan.Backlogs)),
		})
	}
	return issues
}

// parseIndexTotal extracts a section's total count, or nil when the file
// carries no readable count for it.
func parseIndexTotal(content, section string) *int {
	re := regexp.MustCompile(fmt.Sprintf(totalPattern, section))
	match := re.FindStringSubmatch(content)
	if match == nil {
		return nil
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return nil
	}
	return &n
}

// displayPath shortens an absolute entity path to start at the product
// directory's own name, which is what users recognize.
func displayPath(productDir, path string) string {
	rel, err := filepath.Rel(filepath.Dir(productDir), path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
