// Package testutil provides reusable helpers for building throwaway
// product directories in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// TestProduct represents a temporary product directory for testing.
type TestProduct struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestProduct creates a new product directory builder.
// Call Build() to create the actual directory tree.
func NewTestProduct(t *testing.T) *TestProduct {
	t.Helper()
	return &TestProduct{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the product directory.
// The path is relative to the product root.
func (p *TestProduct) WithFile(path, content string) *TestProduct {
	p.files[path] = content
	return p
}

// WithFeedback adds a canned feedback entity under the given status.
func (p *TestProduct) WithFeedback(status, id string, opts ...FeedbackOption) *TestProduct {
	return p.WithFile(
		filepath.Join("feedbacks", status, id+".md"),
		FeedbackFile(status, id, opts...),
	)
}

// WithBacklog adds a canned backlog entity under the given status.
func (p *TestProduct) WithBacklog(status, id string, opts ...BacklogOption) *TestProduct {
	return p.WithFile(
		filepath.Join("backlogs", status, id+".md"),
		BacklogFile(status, id, opts...),
	)
}

// Build creates the product directory and all configured files.
// Returns the TestProduct for method chaining.
func (p *TestProduct) Build() *TestProduct {
	p.t.Helper()
	p.Path = p.t.TempDir()
	for path, content := range p.files {
		p.writeFile(path, content)
	}
	return p
}

func (p *TestProduct) writeFile(relPath, content string) {
	p.t.Helper()
	fullPath := filepath.Join(p.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		p.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		p.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the product directory.
func (p *TestProduct) ReadFile(relPath string) string {
	p.t.Helper()
	content, err := os.ReadFile(filepath.Join(p.Path, relPath))
	if err != nil {
		p.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the product directory.
func (p *TestProduct) FileExists(relPath string) bool {
	p.t.Helper()
	_, err := os.Stat(filepath.Join(p.Path, relPath))
	return err == nil
}

// FeedbackOption customizes a canned feedback document.
type FeedbackOption func(*feedbackDoc)

type feedbackDoc struct {
	title         string
	category      string
	priority      string
	created       string
	updated       string
	linkedBacklog []string
}

// FeedbackTitle overrides the default title.
func FeedbackTitle(title string) FeedbackOption {
	return func(d *feedbackDoc) { d.title = title }
}

// FeedbackCategory overrides the default category.
func FeedbackCategory(category string) FeedbackOption {
	return func(d *feedbackDoc) { d.category = category }
}

// FeedbackPriority sets the priority literal as it should appear in YAML.
func FeedbackPriority(priority string) FeedbackOption {
	return func(d *feedbackDoc) { d.priority = priority }
}

// FeedbackCreated overrides the created date.
func FeedbackCreated(date string) FeedbackOption {
	return func(d *feedbackDoc) { d.created = date }
}

// FeedbackUpdated overrides the updated date.
func FeedbackUpdated(date string) FeedbackOption {
	return func(d *feedbackDoc) { d.updated = date }
}

// FeedbackLinkedBacklog links the feedback to the given backlog ids.
func FeedbackLinkedBacklog(ids ...string) FeedbackOption {
	return func(d *feedbackDoc) { d.linkedBacklog = ids }
}

// FeedbackFile renders a complete feedback Markdown document.
func FeedbackFile(status, id string, opts ...FeedbackOption) string {
	doc := feedbackDoc{
		title:    "Feedback " + id,
		category: "bug",
		priority: "null",
		created:  "2026-01-10",
		updated:  "2026-01-10",
	}
	for _, opt := range opts {
		opt(&doc)
	}

	out := "---\n"
	out += fmt.Sprintf("id: %q\n", id)
	out += fmt.Sprintf("title: %q\n", doc.title)
	out += fmt.Sprintf("status: %q\n", status)
	out += fmt.Sprintf("category: %q\n", doc.category)
	out += fmt.Sprintf("priority: %s\n", doc.priority)
	out += "source: \"user-report\"\n"
	out += "reporter: \"tester\"\n"
	out += fmt.Sprintf("created: %q\n", doc.created)
	out += fmt.Sprintf("updated: %q\n", doc.updated)
	out += "tags: []\n"
	if len(doc.linkedBacklog) > 0 {
		out += "linked_to:\n  backlog:\n"
		for _, bl := range doc.linkedBacklog {
			out += fmt.Sprintf("    - %q\n", bl)
		}
	}
	out += "---\n\n## Description\n\nBody of " + id + ".\n"
	return out
}

// BacklogOption customizes a canned backlog document.
type BacklogOption func(*backlogDoc)

type backlogDoc struct {
	title     string
	category  string
	priority  string
	created   string
	updated   string
	feedbacks []string
	features  []string
}

// BacklogTitle overrides the default title.
func BacklogTitle(title string) BacklogOption {
	return func(d *backlogDoc) { d.title = title }
}

// BacklogCategory overrides the default category.
func BacklogCategory(category string) BacklogOption {
	return func(d *backlogDoc) { d.category = category }
}

// BacklogPriority sets the priority literal as it should appear in YAML.
func BacklogPriority(priority string) BacklogOption {
	return func(d *backlogDoc) { d.priority = priority }
}

// BacklogCreated overrides the created date.
func BacklogCreated(date string) BacklogOption {
	return func(d *backlogDoc) { d.created = date }
}

// BacklogFeedbacks sets the aggregated feedback ids.
func BacklogFeedbacks(ids ...string) BacklogOption {
	return func(d *backlogDoc) { d.feedbacks = ids }
}

// BacklogFeatures sets the promoted feature ids.
func BacklogFeatures(ids ...string) BacklogOption {
	return func(d *backlogDoc) { d.features = ids }
}

// BacklogFile renders a complete backlog Markdown document.
func BacklogFile(status, id string, opts ...BacklogOption) string {
	doc := backlogDoc{
		title:    "Backlog " + id,
		category: "evolution",
		priority: "\"medium\"",
		created:  "2026-01-12",
		updated:  "2026-01-12",
	}
	for _, opt := range opts {
		opt(&doc)
	}

	out := "---\n"
	out += fmt.Sprintf("id: %q\n", id)
	out += fmt.Sprintf("title: %q\n", doc.title)
	out += fmt.Sprintf("status: %q\n", status)
	out += fmt.Sprintf("category: %q\n", doc.category)
	out += fmt.Sprintf("priority: %s\n", doc.priority)
	out += fmt.Sprintf("created: %q\n", doc.created)
	out += fmt.Sprintf("updated: %q\n", doc.updated)
	out += "owner: null\n"
	if len(doc.feedbacks) == 0 {
		out += "feedbacks: []\n"
	} else {
		out += "feedbacks:\n"
		for _, fb := range doc.feedbacks {
			out += fmt.Sprintf("  - %q\n", fb)
		}
	}
	if len(doc.features) == 0 {
		out += "features: []\n"
	} else {
		out += "features:\n"
		for _, f := range doc.features {
			out += fmt.Sprintf("  - %q\n", f)
		}
	}
	out += "tags: []\n"
	out += "---\n\n## Problem\n\nBody of " + id + ".\n"
	return out
}
