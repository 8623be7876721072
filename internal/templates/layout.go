package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Scaffold creates the layout directories under root and writes a package
// marker into every directory equal to or below the package root. It is
// idempotent and returns the directories it was asked to create.
func Scaffold(root string, layout Layout) ([]string, error) {
	dirs := make([]string, 0, len(layout.Dirs))

	for _, dir := range layout.Dirs {
		rel := filepath.ToSlash(filepath.Clean(dir))
		target := filepath.Join(root, filepath.FromSlash(rel))

		if err := os.MkdirAll(target, 0o755); err != nil {
			return dirs, fmt.Errorf("creating directory %s: %w", rel, err)
		}
		dirs = append(dirs, rel)

		if !inPackage(rel, layout.PackageRoot) || layout.Marker == "" {
			continue
		}
		marker := filepath.Join(target, layout.Marker)
		if err := writeFileAtomic(marker, []byte(markerContent(rel)), 0o644); err != nil {
			return dirs, fmt.Errorf("writing package marker in %s: %w", rel, err)
		}
	}

	return dirs, nil
}

// inPackage reports whether rel is the package root or lies beneath it.
func inPackage(rel, packageRoot string) bool {
	if packageRoot == "" {
		return false
	}
	packageRoot = filepath.ToSlash(filepath.Clean(packageRoot))
	return rel == packageRoot || strings.HasPrefix(rel, packageRoot+"/")
}

// markerContent is a one-line docstring naming the dotted module path.
func markerContent(rel string) string {
	return `"""` + strings.ReplaceAll(rel, "/", ".") + ` module."""` + "\n"
}
