package check

// Group collects a report's issues for one rule, for text output.
type Group struct {
	Type   string
	Label  string
	Issues []Issue
}

var groupOrder = []struct {
	typ   string
	label string
}{
	{TypeStatusDirDesync, "Status/directory sync"},
	{TypeStaleFeedback, "Stale feedbacks"},
	{TypeBrokenChain, "Traceability chains"},
	{TypeOrphanedBacklog, "Orphaned backlogs"},
	{TypeIndexDesync, "Index desync"},
}

// Groups splits the report's issues by rule, in presentation order. Every
// rule appears even when clean, so output always shows all five lines.
func (r *Report) Groups() []Group {
	groups := make([]Group, 0, len(groupOrder))
	for _, g := range groupOrder {
		group := Group{Type: g.typ, Label: g.label}
		for _, issue := range r.Issues {
			if issue.Type == g.typ {
				group.Issues = append(group.Issues, issue)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
