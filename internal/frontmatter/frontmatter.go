// Package frontmatter reads and writes the YAML frontmatter blocks carried
// by tracker files.
//
// This is deliberately not a general YAML parser. Tracker files use a narrow
// subset (scalars, inline lists, block lists, and nested mappings) and the
// serializer must reproduce a canonical field order, so the codec is a small
// recursive-descent reader over an indexed line array paired with an
// order-preserving writer. Anchors, multi-document streams, and block
// scalars are out of scope.
package frontmatter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	keyPattern    = regexp.MustCompile(`^([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*(.*)$`)
	numberPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// Parse splits a document into its frontmatter fields and body.
//
// The header is the block between the first two lines consisting solely of
// "---". When no such block exists the whole document is returned as body
// with an empty mapping; malformed input never produces an error.
func Parse(content string) (*Mapping, string) {
	lines := strings.Split(content, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			start = i
			break
		}
	}
	if start == -1 {
		return NewMapping(), content
	}

	end := -1
	for i := start + 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return NewMapping(), content
	}

	fields := parseTopLevel(lines[start+1 : end])
	body := strings.Join(lines[end+1:], "\n")
	return fields, body
}

// parseTopLevel reads indent-0 key lines; anything indented that is not
// claimed as a child block is ignored.
func parseTopLevel(lines []string) *Mapping {
	m := NewMapping()
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		if indentOf(line) > 0 {
			i++
			continue
		}
		match := keyPattern.FindStringSubmatch(line)
		if match == nil {
			i++
			continue
		}
		children, next := collectChildren(lines, i+1, 0)
		m.Set(match[1], parseFieldValue(strings.TrimSpace(match[2]), children))
		i = next
	}
	return m
}

// parseNested reads the key lines of a child block. Unlike the top level it
// is indent-relative: each key line claims every following line indented
// deeper than itself.
func parseNested(lines []string) *Mapping {
	m := NewMapping()
	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			i++
			continue
		}
		match := keyPattern.FindStringSubmatch(trimmed)
		if match == nil {
			i++
			continue
		}
		children, next := collectChildren(lines, i+1, indentOf(line))
		m.Set(match[1], parseFieldValue(strings.TrimSpace(match[2]), children))
		i = next
	}
	return m
}

// collectChildren gathers the lines belonging to the field starting above
// position from: every line indented deeper than indent, plus interleaved
// blank and comment lines, which never terminate a child block.
func collectChildren(lines []string, from, indent int) (children []string, next int) {
	j := from
	for j < len(lines) {
		line := lines[j]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			children = append(children, line)
			j++
			continue
		}
		if indentOf(line) > indent {
			children = append(children, line)
			j++
			continue
		}
		break
	}
	return children, j
}

func parseFieldValue(raw string, children []string) Value {
	if raw == "" && len(children) > 0 {
		if first, ok := firstContentLine(children); ok && strings.HasPrefix(strings.TrimSpace(first), "- ") {
			return List(parseBlockList(children))
		}
		return Map(parseNested(children))
	}
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		return List(parseInlineList(raw))
	}
	return parseScalar(raw)
}

func parseBlockList(lines []string) []Value {
	items := []Value{}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		rest, ok := strings.CutPrefix(trimmed, "- ")
		if !ok {
			continue
		}
		items = append(items, parseScalar(strings.TrimSpace(rest)))
	}
	return items
}

func parseInlineList(raw string) []Value {
	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return []Value{}
	}
	parts := strings.Split(inner, ",")
	items := make([]Value, 0, len(parts))
	for _, part := range parts {
		items = append(items, parseScalar(strings.TrimSpace(part)))
	}
	return items
}

// parseScalar types a raw scalar token. Unparseable bare tokens pass
// through as strings.
func parseScalar(raw string) Value {
	switch raw {
	case "", `""`, "''":
		return String("")
	case "null", "~":
		return Null()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if len(raw) >= 2 {
		if (strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`)) ||
			(strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'")) {
			return String(raw[1 : len(raw)-1])
		}
	}
	if numberPattern.MatchString(raw) {
		n, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return Number(n)
		}
	}
	return String(raw)
}

func firstContentLine(lines []string) (string, bool) {
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return line, true
		}
	}
	return "", false
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
