package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	require.Equal(t, dir, DataDir())
	require.Equal(t, filepath.Join(dir, "markers.db"), DatabaseFile())
}

func TestDataDir_Default(t *testing.T) {
	t.Setenv(HomeEnv, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, ".keymarker"), DataDir())
	require.Equal(t, filepath.Join(home, ".config", "keymarker", "traces", "traces.jsonl"), TracesFile())
}

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/data/markers.db", filepath.Join(home, "data", "markers.db")},
		{"/tmp/../tmp/x", "/tmp/x"},
		{"rel/./path", filepath.Join("rel", "path")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Expand(tt.in))
		})
	}
}
