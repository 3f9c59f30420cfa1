// Package buildinfo holds release metadata stamped into the magpie binary.
package buildinfo

// Set via -ldflags at release time, e.g.
// -X github.com/magpie-dev/magpie/internal/buildinfo.Version=v0.1.0.
// Dev builds leave them empty and fall back to module build info.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
