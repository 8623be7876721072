package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opmodel/apigen/internal/output"
)

// Prune removes the manifest paths of every disabled feature from root.
// Paths that do not exist are skipped. Returns the removed paths.
func Prune(root string, m *Manifest, features Features) ([]string, error) {
	var removed []string

	for _, name := range m.FeatureNames() {
		if features.Enabled(name) {
			continue
		}
		for _, rel := range m.Features[name] {
			target := filepath.Join(root, filepath.FromSlash(rel))

			if _, err := os.Lstat(target); err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return removed, fmt.Errorf("checking %s: %w", rel, err)
			}
			if err := os.RemoveAll(target); err != nil {
				return removed, fmt.Errorf("removing %s: %w", rel, err)
			}

			output.Debug("pruned path", "feature", name, "path", rel)
			removed = append(removed, rel)
		}
	}

	return removed, nil
}
