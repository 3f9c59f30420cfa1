package product

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magpie-dev/magpie/internal/frontmatter"
	"github.com/magpie-dev/magpie/internal/logging"
)

// ScanResult holds every entity found under a product directory.
type ScanResult struct {
	Feedbacks []*Entity
	Backlogs  []*Entity
}

// All returns feedbacks followed by backlogs.
func (r *ScanResult) All() []*Entity {
	out := make([]*Entity, 0, len(r.Feedbacks)+len(r.Backlogs))
	out = append(out, r.Feedbacks...)
	out = append(out, r.Backlogs...)
	return out
}

// Scan walks the fixed status directories under root and loads every .md
// file it finds. Missing directories are fine: a fresh product starts with
// none of them. Files whose frontmatter cannot be read are logged and
// skipped rather than failing the whole scan.
func Scan(root string) (*ScanResult, error) {
	result := &ScanResult{}

	for _, status := range FeedbackStatuses {
		entities, err := scanDir(root, KindFeedback, status)
		if err != nil {
			return nil, err
		}
		result.Feedbacks = append(result.Feedbacks, entities...)
	}
	for _, status := range BacklogStatuses {
		entities, err := scanDir(root, KindBacklog, status)
		if err != nil {
			return nil, err
		}
		result.Backlogs = append(result.Backlogs, entities...)
	}

	return result, nil
}

func scanDir(root string, kind Kind, status string) ([]*Entity, error) {
	dir := StatusDir(root, kind, status)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var entities []*Entity
	for _, name := range names {
		path := filepath.Join(dir, name)
		entity, err := Load(path, kind)
		if err != nil {
			logging.Warnf("skipping %s: %v", path, err)
			continue
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// Load reads and parses a single entity file.
func Load(path string, kind Kind) (*Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields, body := frontmatter.Parse(string(data))
	if fields.Len() == 0 {
		return nil, fmt.Errorf("no frontmatter")
	}
	return &Entity{Kind: kind, Fields: fields, Body: body, Path: path}, nil
}

// Save writes the entity back to its path.
func (e *Entity) Save() error {
	if e.Path == "" {
		return fmt.Errorf("entity %s has no path", e.ID())
	}
	return os.WriteFile(e.Path, []byte(e.Render()), 0o644)
}

// FindFeedback looks up a feedback by id, probing status directories in
// canonical order. When the same id exists in several directories the first
// status wins.
func FindFeedback(root, id string) (*Entity, bool) {
	return find(root, KindFeedback, id)
}

// FindBacklog looks up a backlog by id, probing status directories in
// canonical order.
func FindBacklog(root, id string) (*Entity, bool) {
	return find(root, KindBacklog, id)
}

func find(root string, kind Kind, id string) (*Entity, bool) {
	for _, status := range Statuses(kind) {
		path := filepath.Join(StatusDir(root, kind, status), id+".md")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		entity, err := Load(path, kind)
		if err != nil {
			logging.Warnf("skipping %s: %v", path, err)
			continue
		}
		return entity, true
	}
	return nil, false
}
