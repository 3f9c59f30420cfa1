package product

import (
	"github.com/magpie-dev/magpie/internal/frontmatter"
)

// Entity is one Markdown file in the corpus: parsed frontmatter plus the
// untouched body below it.
type Entity struct {
	Kind   Kind
	Fields *frontmatter.Mapping
	Body   string

	// Path is the file the entity was loaded from, empty for entities
	// built in memory.
	Path string
}

// ID returns the id field, or "" when absent.
func (e *Entity) ID() string {
	return e.Fields.GetString("id")
}

// Title returns the title field, or "" when absent.
func (e *Entity) Title() string {
	return e.Fields.GetString("title")
}

// Status returns the status field, or "" when absent. The directory an
// entity lives in is authoritative; a mismatch here is an integrity error.
func (e *Entity) Status() string {
	return e.Fields.GetString("status")
}

// Category returns the category field, or "" when absent.
func (e *Entity) Category() string {
	return e.Fields.GetString("category")
}

// Priority returns the priority value as-is. It can be a string, a number,
// or null, and the index must render whatever is there.
func (e *Entity) Priority() frontmatter.Value {
	v, _ := e.Fields.Get("priority")
	return v
}

// Created returns the created field, or "" when absent.
func (e *Entity) Created() string {
	return e.Fields.GetString("created")
}

// SetStatus updates the status field in place.
func (e *Entity) SetStatus(status string) {
	e.Fields.Set("status", frontmatter.String(status))
}

// Touch stamps the updated field with the given date.
func (e *Entity) Touch(date string) {
	e.Fields.Set("updated", frontmatter.String(date))
}

// LinkedBacklogs returns the backlog ids a feedback points at via
// linked_to.backlog. Missing or malformed links yield an empty slice.
func (e *Entity) LinkedBacklogs() []string {
	return e.linkedList("backlog")
}

// LinkedFeatures returns the feature ids under linked_to.features.
func (e *Entity) LinkedFeatures() []string {
	return e.linkedList("features")
}

func (e *Entity) linkedList(key string) []string {
	linked, ok := e.Fields.Get("linked_to")
	if !ok {
		return nil
	}
	nested, ok := linked.AsMapping()
	if !ok {
		return nil
	}
	v, ok := nested.Get(key)
	if !ok {
		return nil
	}
	return v.Strings()
}

// AddLinkedBacklog appends a backlog id to linked_to.backlog, creating the
// nested structure on first use. Duplicates are ignored.
func (e *Entity) AddLinkedBacklog(id string) {
	e.addLink("backlog", id)
}

// AddLinkedFeature appends a feature id to linked_to.features.
func (e *Entity) AddLinkedFeature(id string) {
	e.addLink("features", id)
}

func (e *Entity) addLink(key, id string) {
	linked := e.Fields.EnsureMapping("linked_to")
	linked.AppendUnique(key, id)
}

// FeedbackIDs returns the feedback ids a backlog aggregates.
func (e *Entity) FeedbackIDs() []string {
	v, ok := e.Fields.Get("feedbacks")
	if !ok {
		return nil
	}
	return v.Strings()
}

// AddFeedbackID appends a feedback id to the backlog's feedbacks list,
// ignoring duplicates.
func (e *Entity) AddFeedbackID(id string) {
	e.Fields.AppendUnique("feedbacks", id)
}

// FeatureIDs returns the feature ids recorded on a backlog.
func (e *Entity) FeatureIDs() []string {
	v, ok := e.Fields.Get("features")
	if !ok {
		return nil
	}
	return v.Strings()
}

// AddFeatureID appends a feature id to the backlog's features list.
func (e *Entity) AddFeatureID(id string) {
	e.Fields.AppendUnique("features", id)
}

// Render reassembles the full file content, frontmatter first.
func (e *Entity) Render() string {
	return frontmatter.Reconstruct(e.Fields, e.Body)
}
