package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	oerrors "github.com/opmodel/apigen/internal/errors"
)

// CreateEnvFile copies the example env file to its target byte for byte.
// It returns false without error when the project has no example file.
func CreateEnvFile(root string, env EnvFile) (bool, error) {
	if env.Example == "" || env.Target == "" {
		return false, nil
	}

	src := filepath.Join(root, filepath.FromSlash(env.Example))
	data, err := os.ReadFile(src)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &oerrors.CopyError{Path: env.Example, Err: err}
	}

	dst := filepath.Join(root, filepath.FromSlash(env.Target))
	if err := writeFileAtomic(dst, data, 0o644); err != nil {
		return false, &oerrors.CopyError{Path: env.Target, Err: fmt.Errorf("writing env file: %w", err)}
	}
	return true, nil
}
