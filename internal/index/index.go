// Package index derives the read-only index.yaml summary from a scanned
// product directory. The file is never hand-edited; it is rebuilt in full
// after every mutation.
package index

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/magpie-dev/magpie/internal/atomicfile"
	"github.com/magpie-dev/magpie/internal/frontmatter"
	"github.com/magpie-dev/magpie/internal/product"
)

// FileName is the derived artifact's name inside the product directory.
const FileName = "index.yaml"

// Item is one entity row in an index section.
type Item struct {
	ID       string
	Title    string
	Status   string
	Category string
	Priority frontmatter.Value
	Created  string
}

// Section summarizes one entity family.
type Section struct {
	Total      int
	ByStatus   map[string]int
	ByCategory map[string]int
	Items      []Item
}

// Document is the full computed index.
type Document struct {
	Updated   time.Time
	Feedbacks Section
	Backlogs  Section

	// FeedbackToBacklogRate is triaged feedbacks over total feedbacks.
	FeedbackToBacklogRate float64
	// BacklogToFeatureRate is promoted backlogs over total backlogs.
	BacklogToFeatureRate float64
}

// Build computes the index document from a scan.
func Build(scan *product.ScanResult, now time.Time) *Document {
	doc := &Document{
		Updated:   now.UTC(),
		Feedbacks: buildSection(scan.Feedbacks, product.FeedbackStatuses, product.Categories),
		Backlogs:  buildSection(scan.Backlogs, product.BacklogStatuses, nil),
	}
	if doc.Feedbacks.Total > 0 {
		doc.FeedbackToBacklogRate = float64(doc.Feedbacks.ByStatus[product.StatusTriaged]) / float64(doc.Feedbacks.Total)
	}
	if doc.Backlogs.Total > 0 {
		doc.BacklogToFeatureRate = float64(doc.Backlogs.ByStatus[product.StatusPromoted]) / float64(doc.Backlogs.Total)
	}
	return doc
}

func buildSection(entities []*product.Entity, statuses, categories []string) Section {
	section := Section{
		Total:    len(entities),
		ByStatus: make(map[string]int, len(statuses)),
	}
	for _, s := range statuses {
		section.ByStatus[s] = 0
	}
	if categories != nil {
		section.ByCategory = make(map[string]int, len(categories))
		for _, c := range categories {
			section.ByCategory[c] = 0
		}
	}

	items := make([]Item, 0, len(entities))
	for _, e := range entities {
		if _, known := section.ByStatus[e.Status()]; known {
			section.ByStatus[e.Status()]++
		}
		if section.ByCategory != nil {
			if _, known := section.ByCategory[e.Category()]; known {
				section.ByCategory[e.Category()]++
			}
		}
		items = append(items, Item{
			ID:       e.ID(),
			Title:    e.Title(),
			Status:   e.Status(),
			Category: e.Category(),
			Priority: e.Priority(),
			Created:  e.Created(),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return product.NumericID(items[i].ID) < product.NumericID(items[j].ID)
	})
	section.Items = items
	return section
}

// Render serializes the document into the canonical index.yaml layout.
func (d *Document) Render() string {
	var lines []string
	push := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	push(`product_version: "1.0"`)
	push(`updated: %q`, d.Updated.Format(time.RFC3339))
	push("")

	push("feedbacks:")
	push("  total: %d", d.Feedbacks.Total)
	push("  by_status:")
	for _, status := range product.FeedbackStatuses {
		push("    %s: %d", status, d.Feedbacks.ByStatus[status])
	}
	push("  by_category:")
	for _, category := range product.Categories {
		push("    %s: %d", category, d.Feedbacks.ByCategory[category])
	}
	push("  items:")
	renderItems(&lines, d.Feedbacks.Items)
	push("")

	push("backlogs:")
	push("  total: %d", d.Backlogs.Total)
	push("  by_status:")
	for _, status := range product.BacklogStatuses {
		push("    %s: %d", status, d.Backlogs.ByStatus[status])
	}
	push("  items:")
	renderItems(&lines, d.Backlogs.Items)
	push("")

	push("metrics:")
	push("  feedback_to_backlog_rate: %s", formatRate(d.FeedbackToBacklogRate))
	push("  backlog_to_feature_rate: %s", formatRate(d.BacklogToFeatureRate))
	push("")

	return strings.Join(lines, "\n")
}

func renderItems(lines *[]string, items []Item) {
	for _, item := range items {
		*lines = append(*lines,
			fmt.Sprintf(`    - id: "%s"`, item.ID),
			fmt.Sprintf(`      title: "%s"`, escapeQuotes(item.Title)),
			fmt.Sprintf(`      status: "%s"`, item.Status),
			fmt.Sprintf(`      category: "%s"`, item.Category),
			fmt.Sprintf(`      priority: %s`, renderPriority(item.Priority)),
			fmt.Sprintf(`      created: "%s"`, item.Created),
		)
	}
}

// renderPriority keeps null priorities bare so consumers see a YAML null
// instead of an empty string.
func renderPriority(v frontmatter.Value) string {
	switch v.Kind() {
	case frontmatter.KindString:
		s, _ := v.AsString()
		return `"` + escapeQuotes(s) + `"`
	case frontmatter.KindNumber:
		n, _ := v.AsNumber()
		return strconv.FormatFloat(n, 'f', -1, 64)
	case frontmatter.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	default:
		return "null"
	}
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func formatRate(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64)
}

// Write renders the document and atomically replaces index.yaml under
// productDir.
func Write(productDir string, doc *Document) error {
	return atomicfile.WriteFile(filepath.Join(productDir, FileName), []byte(doc.Render()), 0)
}

// Rebuild rescans the product directory and rewrites index.yaml.
func Rebuild(productDir string, now time.Time) (*Document, error) {
	scan, err := product.Scan(productDir)
	if err != nil {
		return nil, err
	}
	doc := Build(scan, now)
	if err := Write(productDir, doc); err != nil {
		return nil, fmt.Errorf("write %s: %w", FileName, err)
	}
	return doc, nil
}
