package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()
	require.NotEmpty(t, info.GoVersion)
	assert.Equal(t, Version, info.Version)
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.0.0",
		GitCommit: "abc123",
		BuildDate: "2026-01-29",
		GoVersion: "go1.25",
	}

	str := info.String()

	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"Python 3.12.1\n", "3.12.1"},
		{"uv 0.4.18 (Homebrew 2024-09-24)", "0.4.18"},
		{"pip 24.2 from /usr/lib/python3/dist-packages/pip (python 3.12)", "24.2"},
		{"no version here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, extractVersion(tt.output))
		})
	}
}

func TestDetectTool_Missing(t *testing.T) {
	info := DetectTool("apigen-definitely-not-installed")
	assert.False(t, info.Found)
	assert.Contains(t, info.String(), "not found")
}

func TestFullVersionString(t *testing.T) {
	out := FullVersionString(Info{Version: "v1.2.3"}, []ToolInfo{
		{Name: "uv", Found: true, Version: "0.4.18", Path: "/usr/bin/uv"},
		{Name: "python3"},
	})

	assert.Contains(t, out, "v1.2.3")
	assert.Contains(t, out, "0.4.18")
	assert.Contains(t, out, "python3:")
}
