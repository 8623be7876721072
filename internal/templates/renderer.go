package templates

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	oerrors "github.com/opmodel/apigen/internal/errors"
	"github.com/opmodel/apigen/internal/output"
)

// vcsDirs are never copied out of a template tree.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

// Renderer substitutes project values into template text.
type Renderer struct {
	manifest *Manifest
	replacer [][2][]byte
}

// NewRenderer creates a renderer for the manifest's placeholders.
func NewRenderer(m *Manifest, data ProjectData) *Renderer {
	r := &Renderer{manifest: m}
	if m.Placeholder != "" {
		r.replacer = append(r.replacer, [2][]byte{[]byte(m.Placeholder), []byte(data.Name)})
	}
	if m.DisplayPlaceholder != "" {
		r.replacer = append(r.replacer, [2][]byte{[]byte(m.DisplayPlaceholder), []byte(data.DisplayName)})
	}
	return r
}

// RenderFile returns content with placeholders replaced when rel is a text
// file, and content unchanged otherwise. Replacement is literal.
func (r *Renderer) RenderFile(rel string, content []byte) []byte {
	if !r.manifest.IsText(rel) {
		return content
	}
	for _, pair := range r.replacer {
		content = bytes.ReplaceAll(content, pair[0], pair[1])
	}
	return content
}

// Materialize copies every template file into destRoot at the same relative
// path, rendering text files on the way. It returns the written paths in walk
// order, using forward slashes. The first failure aborts the walk.
func (r *Renderer) Materialize(fsys fs.FS, destRoot string) ([]string, error) {
	var written []string

	err := fs.WalkDir(fsys, ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			return &oerrors.CopyError{Path: rel, Err: err}
		}
		if rel == "." {
			return nil
		}
		if skip(rel, d, r.manifest) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if err := r.materializeFile(fsys, rel, d, destRoot); err != nil {
			return err
		}
		output.Debug("materialized file", "path", rel)
		written = append(written, rel)
		return nil
	})

	return written, err
}

func (r *Renderer) materializeFile(fsys fs.FS, rel string, d fs.DirEntry, destRoot string) error {
	content, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return &oerrors.CopyError{Path: rel, Err: err}
	}

	info, err := d.Info()
	if err != nil {
		return &oerrors.CopyError{Path: rel, Err: err}
	}

	target := filepath.Join(destRoot, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return &oerrors.CopyError{Path: rel, Err: err}
	}

	if err := writeFileAtomic(target, r.RenderFile(rel, content), fileMode(rel, info.Mode())); err != nil {
		return &oerrors.CopyError{Path: rel, Err: err}
	}
	return nil
}

// skip reports whether a template entry is left out of the project: the
// manifest, VCS metadata, compiled Python artifacts and excluded patterns.
func skip(rel string, d fs.DirEntry, m *Manifest) bool {
	name := d.Name()
	if d.IsDir() {
		return vcsDirs[name] || name == "__pycache__" || m.Excluded(rel)
	}
	if rel == ManifestFile || strings.HasSuffix(name, ".pyc") {
		return true
	}
	return m.Excluded(rel)
}

// fileMode: shell scripts and executables get 0755, everything else 0644.
func fileMode(rel string, src fs.FileMode) fs.FileMode {
	if path.Ext(rel) == ".sh" || src&0o111 != 0 {
		return 0o755
	}
	return 0o644
}

// writeFileAtomic writes data to a temporary file in the target directory and
// renames it into place.
func writeFileAtomic(target string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
