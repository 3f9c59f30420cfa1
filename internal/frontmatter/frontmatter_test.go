package frontmatter

import (
	"strings"
	"testing"
)

func TestParseNoFrontmatter(t *testing.T) {
	content := "# Just a heading\n\nSome text"
	fields, body := Parse(content)
	if fields.Len() != 0 {
		t.Errorf("expected empty mapping, got %d fields", fields.Len())
	}
	if body != content {
		t.Errorf("expected whole document as body, got %q", body)
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	content := "---\nid: \"FB-001\"\nno closing delimiter"
	fields, body := Parse(content)
	if fields.Len() != 0 {
		t.Errorf("expected empty mapping for unclosed header, got %d fields", fields.Len())
	}
	if body != content {
		t.Errorf("expected whole document as body, got %q", body)
	}
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Value
	}{
		{"empty", "", String("")},
		{"empty double quotes", `""`, String("")},
		{"empty single quotes", "''", String("")},
		{"null word", "null", Null()},
		{"null tilde", "~", Null()},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"integer", "42", Number(42)},
		{"negative", "-7", Number(-7)},
		{"decimal", "3.5", Number(3.5)},
		{"double quoted", `"quoted"`, String("quoted")},
		{"single quoted", "'quoted'", String("quoted")},
		{"bare token", "hello world", String("hello world")},
		{"almost number", "1.2.3", String("1.2.3")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, _ := Parse("---\nvalue: " + tt.raw + "\n---\n")
			got, ok := fields.Get("value")
			if !ok {
				t.Fatal("field not parsed")
			}
			if !got.Equal(tt.want) {
				t.Errorf("parse %q = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseInlineList(t *testing.T) {
	fields, _ := Parse("---\ntags: [\"cli\", \"parser\", 3]\nempty: []\n---\n")

	tags, ok := fields.Get("tags")
	if !ok {
		t.Fatal("tags not parsed")
	}
	want := List([]Value{String("cli"), String("parser"), Number(3)})
	if !tags.Equal(want) {
		t.Errorf("tags = %+v, want %+v", tags, want)
	}

	empty, _ := fields.Get("empty")
	if items, ok := empty.AsList(); !ok || len(items) != 0 {
		t.Errorf("empty = %+v, want empty list", empty)
	}
}

func TestParseBlockList(t *testing.T) {
	content := `---
feedbacks:
  - "FB-001"
  # a comment inside the block

  - "FB-002"
  - 12
title: "after"
---
`
	fields, _ := Parse(content)

	feedbacks, ok := fields.Get("feedbacks")
	if !ok {
		t.Fatal("feedbacks not parsed")
	}
	want := List([]Value{String("FB-001"), String("FB-002"), Number(12)})
	if !feedbacks.Equal(want) {
		t.Errorf("feedbacks = %+v, want %+v", feedbacks, want)
	}
	if fields.GetString("title") != "after" {
		t.Error("blank and comment lines must not terminate the block")
	}
}

func TestParseNestedMapping(t *testing.T) {
	content := `---
linked_to:
  backlog:
    - "BL-001"
  features: []
resolution:
  resolved_date: ""
  resolved_by_feature: null
---
body text`
	fields, body := Parse(content)

	linked, ok := fields.Get("linked_to")
	if !ok {
		t.Fatal("linked_to not parsed")
	}
	m, ok := linked.AsMapping()
	if !ok {
		t.Fatalf("linked_to is %v, want mapping", linked.Kind())
	}
	backlog, _ := m.Get("backlog")
	if !backlog.Equal(List([]Value{String("BL-001")})) {
		t.Errorf("linked_to.backlog = %+v", backlog)
	}

	resolution, _ := fields.Get("resolution")
	rm, ok := resolution.AsMapping()
	if !ok {
		t.Fatal("resolution is not a mapping")
	}
	if date, _ := rm.Get("resolved_date"); !date.Equal(String("")) {
		t.Errorf("resolved_date = %+v, want empty string", date)
	}
	if feat, _ := rm.Get("resolved_by_feature"); !feat.IsNull() {
		t.Errorf("resolved_by_feature = %+v, want null", feat)
	}

	if body != "body text" {
		t.Errorf("body = %q", body)
	}
}

func TestParseIgnoresIndentedStrays(t *testing.T) {
	content := "---\nid: \"FB-001\"\n  stray: indented without parent\ntitle: \"ok\"\n---\n"
	fields, _ := Parse(content)
	if fields.Has("stray") {
		t.Error("indented stray line must not become a top-level field")
	}
	if fields.GetString("title") != "ok" {
		t.Error("parsing must continue after a stray line")
	}
}

func TestParseKeyOrderPreserved(t *testing.T) {
	fields, _ := Parse("---\nzeta: 1\nalpha: 2\nmid: 3\n---\n")
	want := []string{"zeta", "alpha", "mid"}
	got := fields.Keys()
	if len(got) != len(want) {
		t.Fatalf("keys = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("keys = %v, want %v", got, want)
		}
	}
}

func TestSerializeCanonicalOrder(t *testing.T) {
	m := NewMapping()
	m.Set("custom_field", String("kept"))
	m.Set("_path", String("dropped"))
	m.Set("status", String("open"))
	m.Set("id", String("BL-001"))
	m.Set("title", String("Order test"))

	got := Serialize(m)
	want := "id: \"BL-001\"\ntitle: \"Order test\"\nstatus: \"open\"\ncustom_field: \"kept\""
	if got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeFeedbackOrderDetection(t *testing.T) {
	m := NewMapping()
	m.Set("source", String("survey"))
	m.Set("id", String("FB-001"))
	linked := NewMapping()
	linked.Set("backlog", StringList([]string{"BL-001"}))
	m.Set("linked_to", Map(linked))

	got := Serialize(m)
	// Feedback order puts source before linked_to and id first.
	want := strings.Join([]string{
		`id: "FB-001"`,
		`source: "survey"`,
		"linked_to:",
		"  backlog:",
		`    - "BL-001"`,
	}, "\n")
	if got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeValueForms(t *testing.T) {
	m := NewMapping()
	m.Set("priority", Null())
	m.Set("count", Number(3))
	m.Set("rate", Number(0.5))
	m.Set("active", Bool(true))
	m.Set("empty", String(""))
	m.Set("tags", List(nil))

	got := Serialize(m)
	// priority and tags are known fields and lead; the rest keep
	// insertion order.
	want := strings.Join([]string{
		"priority: null",
		"tags: []",
		"count: 3",
		"rate: 0.5",
		"active: true",
		`empty: ""`,
	}, "\n")
	if got != want {
		t.Errorf("Serialize =\n%s\nwant\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []string{
		`---
id: "FB-001"
title: "Login fails on Safari"
status: "new"
category: "bug"
priority: null
source: "support"
reporter: "ops"
created: "2026-08-01"
updated: "2026-08-01"
tags:
  - "auth"
  - "browser"
exclusion_reason: ""
linked_to:
  backlog:
    - "BL-001"
  features: []
  feedbacks: []
resolution:
  resolved_date: ""
  resolved_by_feature: ""
  resolved_by_backlog: ""
---

## Notes

Free text body stays untouched.
`,
		`---
id: "BL-001"
title: "Stabilize auth flow"
status: "open"
category: "bug"
priority: "high"
created: "2026-08-01"
updated: "2026-08-02"
owner: ""
feedbacks:
  - "FB-001"
features: []
tags: []
promotion:
  promoted_date: ""
  feature_id: ""
cancellation:
  cancelled_date: ""
  reason: ""
---
`,
	}

	for i, doc := range docs {
		fields, body := Parse(doc)
		rebuilt := Reconstruct(fields, body)
		fields2, body2 := Parse(rebuilt)

		if !fields.Equal(fields2) {
			t.Errorf("doc %d: fields changed across round trip\nfirst: %v\nsecond: %v", i, fields.Keys(), fields2.Keys())
		}
		if body != body2 {
			t.Errorf("doc %d: body changed across round trip\nfirst: %q\nsecond: %q", i, body, body2)
		}
	}
}

func TestRoundTripStable(t *testing.T) {
	// A serializer-produced document must reparse and reserialize to the
	// same bytes.
	m := NewMapping()
	m.Set("id", String("BL-002"))
	m.Set("title", String(`embedded "quotes" survive`))
	m.Set("status", String("open"))
	m.Set("feedbacks", StringList([]string{"FB-003"}))

	first := Reconstruct(m, "body\n")
	fields, body := Parse(first)
	second := Reconstruct(fields, body)
	if first != second {
		t.Errorf("reserialization not stable\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
