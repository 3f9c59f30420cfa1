// Package slugs generates the slug portion of feature identifiers.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// maxFeatureLen caps the slug portion of a feature id.
const maxFeatureLen = 60

// Feature converts a backlog title into a feature id slug: lowercase,
// non-alphanumeric runs collapsed to single hyphens, leading/trailing
// hyphens stripped, truncated to 60 characters.
func Feature(title string) string {
	if strings.TrimSpace(title) == "" {
		return "untitled"
	}
	s := goslug.Make(title)
	if s == "" {
		return "untitled"
	}
	if len(s) > maxFeatureLen {
		s = strings.TrimRight(s[:maxFeatureLen], "-")
	}
	return s
}
