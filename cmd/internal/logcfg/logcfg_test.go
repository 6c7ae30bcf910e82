package logcfg

import (
	"os"
	"path/filepath"
	"testing"

	logs "github.com/danmuck/smplog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	t.Parallel()
	debug := writeConfig(t, "debug.toml", "level = \"debug\"\nno_color = true\n")
	warn := writeConfig(t, "warn.toml", "level = \"warn\"\n")
	broken := writeConfig(t, "broken.toml", "level = [\n")
	missing := filepath.Join(t.TempDir(), "missing.toml")

	tests := []struct {
		name       string
		explicit   string
		candidates []string
		level      logs.Level
		noColor    bool
	}{
		{"explicit path wins", debug, []string{warn}, logs.DebugLevel, true},
		{"unreadable explicit falls through", missing, []string{broken, warn}, logs.WarnLevel, false},
		{"first readable candidate", "", []string{missing, debug, warn}, logs.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := LoadFrom(tt.explicit, tt.candidates...)
			assert.Equal(t, tt.level, cfg.Level)
			assert.Equal(t, tt.noColor, cfg.NoColor)
		})
	}
}

func TestLoadFrom_FallsBackToDefaults(t *testing.T) {
	t.Parallel()
	broken := writeConfig(t, "broken.toml", "level = \"loud\"\n")

	cfg := LoadFrom(broken, filepath.Join(t.TempDir(), "missing.toml"))
	defaults := logs.DefaultConfig()
	assert.Equal(t, defaults.Level, cfg.Level)
	assert.Equal(t, defaults.Timestamp, cfg.Timestamp)
	assert.Equal(t, defaults.TimeFormat, cfg.TimeFormat)
	assert.Equal(t, os.Stdout, cfg.Writer)
}

func TestCandidates(t *testing.T) {
	t.Parallel()
	for _, path := range Candidates {
		assert.Equal(t, "smplog.config.toml", filepath.Base(path))
	}
}
