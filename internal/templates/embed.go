// Package templates embeds the project templates and turns them into new
// projects on disk.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
)

//go:embed all:fastapi
var builtinFS embed.FS

// FS returns the template tree for a built-in template, rooted at the
// template directory.
func FS(name string) (fs.FS, error) {
	if _, ok := registry[name]; !ok {
		return nil, unknownTemplateError(name)
	}
	sub, err := fs.Sub(builtinFS, name)
	if err != nil {
		return nil, fmt.Errorf("opening template %s: %w", name, err)
	}
	return sub, nil
}

// DirFS returns an on-disk template tree. The directory must exist.
func DirFS(dir string) (fs.FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// ListTemplateFiles returns every file a template would materialize, sorted.
func ListTemplateFiles(fsys fs.FS, m *Manifest) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if skip(path, d, m) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing template files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
