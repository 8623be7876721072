package templates

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/apigen/internal/testutil"
)

func pruneFixture(t *testing.T) (string, *Manifest) {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"Dockerfile":         "FROM python",
		"alembic/env.py":     "x",
		"alembic.ini":        "x",
		"tests/test_main.py": "x",
		"README.md":          "x",
	})
	m := &Manifest{Features: map[string][]string{
		FeatureContainer:     {"Dockerfile", "docker-compose.yml"},
		FeatureFastInstaller: {"UV_INSTALL.md"},
		FeatureMigrations:    {"alembic", "alembic.ini"},
		FeatureTests:         {"tests", "pytest.ini"},
	}}
	return root, m
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name        string
		features    Features
		wantRemoved []string
		wantKept    []string
	}{
		{
			name:        "everything enabled",
			features:    AllFeatures(),
			wantRemoved: nil,
			wantKept:    []string{"Dockerfile", "alembic/env.py", "alembic.ini", "tests/test_main.py"},
		},
		{
			name:        "only migrations disabled",
			features:    Features{Container: true, FastInstaller: true, Tests: true},
			wantRemoved: []string{"alembic", "alembic.ini"},
			wantKept:    []string{"Dockerfile", "tests/test_main.py"},
		},
		{
			name:        "all disabled skips missing paths",
			features:    Features{},
			wantRemoved: []string{"Dockerfile", "alembic", "alembic.ini", "tests"},
			wantKept:    []string{"README.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, m := pruneFixture(t)

			removed, err := Prune(root, m, tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRemoved, removed)

			for _, rel := range tt.wantRemoved {
				assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
				assert.NoDirExists(t, filepath.Join(root, filepath.FromSlash(rel)))
			}
			for _, rel := range tt.wantKept {
				assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
			}
		})
	}
}

func TestPrune_Twice(t *testing.T) {
	root, m := pruneFixture(t)

	_, err := Prune(root, m, Features{})
	require.NoError(t, err)

	removed, err := Prune(root, m, Features{})
	require.NoError(t, err)
	assert.Empty(t, removed)
}
