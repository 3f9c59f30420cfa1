package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/magpie-dev/magpie/internal/dates"
	"github.com/magpie-dev/magpie/internal/frontmatter"
	"github.com/magpie-dev/magpie/internal/index"
	"github.com/magpie-dev/magpie/internal/product"
	"github.com/magpie-dev/magpie/internal/slugs"
)

// PromoteOptions tunes a promotion.
type PromoteOptions struct {
	// FeaturesDir overrides the default <repo>/.features location.
	FeaturesDir string
	Now         time.Time
}

// PromoteResult describes a completed promotion.
type PromoteResult struct {
	BacklogID        string
	FeatureID        string
	FeatureNumber    string
	FeaturePath      string
	UpdatedFeedbacks []string
}

var featureNumberPattern = regexp.MustCompile(`^(\d+)-`)

// Promote graduates a backlog into a numbered feature: it writes the
// feature YAML, moves the backlog to promoted/, backlinks every aggregated
// feedback, and rebuilds the index.
func Promote(productDir, backlogID string, opts PromoteOptions) (*PromoteResult, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	bl, ok := product.FindBacklog(productDir, backlogID)
	if !ok {
		return nil, fmt.Errorf("%s not found in %s/backlogs/", backlogID, filepath.Base(productDir))
	}
	if bl.Status() == product.StatusPromoted {
		featureID := promotedFeatureID(bl)
		return nil, fmt.Errorf("%s is already promoted (feature: %s)", backlogID, featureID)
	}

	today := dates.Today(opts.Now)

	repoRoot := filepath.Dir(productDir)
	featuresDir := opts.FeaturesDir
	if featuresDir == "" {
		featuresDir = filepath.Join(repoRoot, ".features")
	}

	num := nextFeatureNumber(featuresDir, filepath.Join(repoRoot, "specs"))
	padded := fmt.Sprintf("%03d", num)
	featureID := padded + "-" + slugs.Feature(bl.Title())

	if err := os.MkdirAll(featuresDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", featuresDir, err)
	}
	featurePath := filepath.Join(featuresDir, featureID+".yaml")
	featureYAML := featureDocument(featureID, bl, today, opts.Now)
	if err := os.WriteFile(featurePath, []byte(featureYAML), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", featurePath, err)
	}

	promotion := bl.Fields.EnsureMapping("promotion")
	promotion.Set("promoted_date", frontmatter.String(today))
	promotion.Set("feature_id", frontmatter.String(featureID))
	bl.AddFeatureID(featureID)
	if err := relocate(productDir, bl, product.StatusPromoted, today); err != nil {
		return nil, err
	}

	result := &PromoteResult{
		BacklogID:     backlogID,
		FeatureID:     featureID,
		FeatureNumber: padded,
		FeaturePath:   featurePath,
	}

	for _, fbID := range bl.FeedbackIDs() {
		fb, ok := product.FindFeedback(productDir, fbID)
		if !ok {
			continue
		}
		fb.AddLinkedFeature(featureID)
		fb.Touch(today)
		if err := fb.Save(); err != nil {
			return nil, err
		}
		result.UpdatedFeedbacks = append(result.UpdatedFeedbacks, fbID)
	}

	if _, err := index.Rebuild(productDir, opts.Now); err != nil {
		return nil, err
	}
	return result, nil
}

func promotedFeatureID(bl *product.Entity) string {
	if v, ok := bl.Fields.Get("promotion"); ok {
		if m, ok := v.AsMapping(); ok {
			if id := m.GetString("feature_id"); id != "" {
				return id
			}
		}
	}
	return "unknown"
}

// nextFeatureNumber scans the features and specs directories for numeric
// prefixes and returns the highest plus one. Missing directories count as
// empty.
func nextFeatureNumber(dirs ...string) int {
	max := 0
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			match := featureNumberPattern.FindStringSubmatch(entry.Name())
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

// featureDocument renders the feature YAML with its lifecycle, artifact,
// and health scaffolding zeroed out for a freshly promoted feature.
func featureDocument(featureID string, bl *product.Entity, today string, now time.Time) string {
	owner := bl.Fields.GetString("owner")

	tagsJSON := "[]"
	if v, ok := bl.Fields.Get("tags"); ok {
		if tags := v.Strings(); len(tags) > 0 {
			if data, err := json.Marshal(tags); err == nil {
				tagsJSON = string(data)
			}
		}
	}

	esc := func(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }

	return fmt.Sprintf(`feature_version: "1.0"

# ── Identity ──────────────────────────────────────────
feature_id: "%s"
title: "%s"
status: "active"
owner: "%s"
created: "%s"
updated: "%s"

# ── Dependencies ──────────────────────────────────────
depends_on: []
tags: %s

# ── Lifecycle (computed) ──────────────────────────────
lifecycle:
  stage: "ideation"
  stage_since: "%s"
  progress: 0.0
  manual_override: null
  retroactive: false

# ── Artifacts (computed from scan) ────────────────────
artifacts:
  bmad:
    prd: false
    architecture: false
    epics: false
  speckit:
    spec: false
    plan: false
    research: false
    tasks: false
    contracts: false
    tasks_done: 0
    tasks_total: 0
  agreement:
    exists: false
    status: ""
    check: "NOT_APPLICABLE"
  adr:
    count: 0
    ids: []
  mermaid:
    count: 0
    layers:
      L0: 0
      L1: 0
      L2: 0

# ── Health (computed) ─────────────────────────────────
health:
  overall: "HEALTHY"
  agreement: "NOT_APPLICABLE"
  spec_completeness: 0.0
  task_progress: 0.0
  adr_coverage: 0
  diagram_coverage: 0
  warnings: []

# ── Regression Detection ─────────────────────────────
last_scan:
  timestamp: "%s"
  stage: "ideation"
  artifacts_snapshot:
    bmad_prd: false
    speckit_spec: false
    speckit_plan: false
    speckit_tasks: false
    agreement_exists: false

# ── Conventions ───────────────────────────────────────
conventions:
  - "conv-001-cli-entry-structure"
  - "conv-002-file-based-artifacts"
  - "conv-003-derived-index"
`,
		featureID, esc(bl.Title()), esc(owner), today, today,
		tagsJSON, today, now.UTC().Format(time.RFC3339))
}
