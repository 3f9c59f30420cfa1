// Package templates embeds the artifact templates and slash-command files
// that init and update install into a project.
package templates

import (
	"embed"
	"io/fs"
	"path"
)

//go:embed core commands
var files embed.FS

// File is one embedded template.
type File struct {
	Name    string
	Content []byte
}

// Core returns the entity templates installed to .product/_templates/.
func Core() ([]File, error) {
	return readDir("core")
}

// Commands returns the slash-command files installed to .claude/commands/.
func Commands() ([]File, error) {
	return readDir("commands")
}

func readDir(dir string) ([]File, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, err
	}
	out := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := files.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: entry.Name(), Content: data})
	}
	return out, nil
}
