package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolwire"
)

const sampleYAML = `
log_level: debug
call_ids: true
paths:
  - "src/**"
tools:
  - name: search
    type: json
    parameters:
      type: object
      properties:
        query: {type: string}
      required: [query]
  - name: write_file
    type: backtick
privacy:
  - search: alice@example.com
    replace: EMAIL_1
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Tools, 2)
	assert.Equal(t, "search", cfg.Tools[0].Name)
	assert.Equal(t, toolwire.FormatJSON, cfg.Tools[0].Format)
	require.NotNil(t, cfg.Tools[0].Parameters)
	assert.Equal(t, toolwire.SchemaType("object"), cfg.Tools[0].Parameters.Type)
	assert.Equal(t, []string{"query"}, cfg.Tools[0].Parameters.Required)
	assert.Equal(t, toolwire.FormatBacktick, cfg.Tools[1].Format)
	assert.Nil(t, cfg.Tools[1].Parameters)

	assert.Equal(t, []toolwire.PrivacyPair{{Search: "alice@example.com", Replace: "EMAIL_1"}}, cfg.Privacy)
	assert.Equal(t, []string{"src/**"}, cfg.Paths)
	assert.True(t, cfg.CallIDs)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing name", "tools:\n  - type: json\n", "name required"},
		{"missing type", "tools:\n  - name: a\n", "type required"},
		{"unknown type", "tools:\n  - name: a\n    type: csv\n", "unknown tool format"},
		{"duplicate", "tools:\n  - {name: a, type: xml}\n  - {name: a, type: json}\n", "defined twice"},
		{"bad yaml", "tools: [", "parse yaml"},
		{"bad path pattern", "paths: [\"src/[a\"]\n", "invalid path pattern"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	cfg, err := Load(map[string]string{"TOOLWIRE_CONFIG": path})
	require.NoError(t, err)
	assert.Len(t, cfg.Tools, 2)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoad_LogLevelOverride(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	cfg, err := Load(map[string]string{"TOOLWIRE_CONFIG": path, "TOOLWIRE_LOG_LEVEL": "ERROR"})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelError, cfg.Level())
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	_, err := Load(map[string]string{"TOOLWIRE_CONFIG": path, "TOOLWIRE_LOG_LEVEL": "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(map[string]string{"TOOLWIRE_CONFIG": filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_DefaultMissingFileIsEmpty(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load(map[string]string{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Tools)
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"Debug":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestDecoderOptions(t *testing.T) {
	cfg := &Config{Paths: []string{"src/**"}, Exclude: []string{"diff"}, CallIDs: true}
	assert.Len(t, cfg.DecoderOptions(slog.Default()), 4)
	assert.Len(t, (&Config{}).DecoderOptions(nil), 1)
}
