package frontmatter

import "strings"

// Canonical field orders for the two entity schemas. Serialization emits
// known fields first in this order; remaining fields follow in their
// existing order.
var (
	feedbackFieldOrder = []string{
		"id", "title", "status", "category", "priority", "source", "reporter",
		"created", "updated", "tags", "exclusion_reason", "linked_to", "resolution",
	}
	backlogFieldOrder = []string{
		"id", "title", "status", "category", "priority", "created", "updated",
		"owner", "feedbacks", "features", "tags", "promotion", "cancellation",
	}
)

// Serialize renders a field mapping as YAML lines without the "---"
// delimiters.
//
// The schema is detected by key presence: a mapping carrying "linked_to"
// serializes in feedback order, anything else in backlog order. Fields whose
// key starts with "_" are bookkeeping and are never written.
func Serialize(m *Mapping) string {
	if m.Len() == 0 {
		return ""
	}

	order := backlogFieldOrder
	if m.Has("linked_to") {
		order = feedbackFieldOrder
	}

	var lines []string
	written := make(map[string]bool, m.Len())
	for _, key := range order {
		if v, ok := m.Get(key); ok {
			writeField(&lines, key, v, 0)
			written[key] = true
		}
	}
	for _, key := range m.Keys() {
		if written[key] || strings.HasPrefix(key, "_") {
			continue
		}
		v, _ := m.Get(key)
		writeField(&lines, key, v, 0)
	}

	return strings.Join(lines, "\n")
}

func writeField(lines *[]string, key string, v Value, indent int) {
	prefix := strings.Repeat("  ", indent)

	switch v.Kind() {
	case KindList:
		items, _ := v.AsList()
		if len(items) == 0 {
			*lines = append(*lines, prefix+key+": []")
			return
		}
		*lines = append(*lines, prefix+key+":")
		for _, item := range items {
			*lines = append(*lines, prefix+"  - "+scalarLiteral(item))
		}
	case KindMapping:
		nested, _ := v.AsMapping()
		*lines = append(*lines, prefix+key+":")
		for _, subKey := range nested.Keys() {
			sub, _ := nested.Get(subKey)
			writeField(lines, subKey, sub, indent+1)
		}
	default:
		*lines = append(*lines, prefix+key+": "+scalarLiteral(v))
	}
}

// Reconstruct assembles a full document from fields and body.
//
// Round-trip contract: for any document this system itself writes,
// Parse(Reconstruct(fields, body)) yields fields and body unchanged.
func Reconstruct(m *Mapping, body string) string {
	return "---\n" + Serialize(m) + "\n---\n" + body
}
