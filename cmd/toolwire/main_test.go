package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/skosovsky/toolwire"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testConfig = `
log_level: error
paths: ["src/**"]
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

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	cmd := newRootCmd(map[string]string{"TOOLWIRE_CONFIG": path})
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decodeCalls(t *testing.T, out string) []toolwire.ToolCall {
	t.Helper()
	var calls []toolwire.ToolCall
	require.NoError(t, json.Unmarshal([]byte(out), &calls))
	return calls
}

func TestDecode_JSONWithRedact(t *testing.T) {
	out, err := run(t, `[{"name":"search","parameters":{"query":"mail alice@example.com"}}]`, "decode", "--redact")
	require.NoError(t, err)

	calls := decodeCalls(t, out)
	require.Len(t, calls, 1)
	assert.Equal(t, "search", calls[0].Name)
	assert.Equal(t, map[string]any{"query": "mail EMAIL_1"}, calls[0].Parameters)
}

func TestDecode_Backtick(t *testing.T) {
	text := "Here:\n```go src/main.go\npackage main\n```\n```go other/x.go\npackage x\n```\n"
	out, err := run(t, text, "decode")
	require.NoError(t, err)

	calls := decodeCalls(t, out)
	require.Len(t, calls, 1)
	assert.Equal(t, toolwire.FormatBacktick, calls[0].Format)
	assert.Equal(t, "write_file", calls[0].Name)
	assert.Equal(t, map[string]any{"path": "src/main.go", "content": "package main"}, calls[0].Parameters)
}

func TestDecode_NothingFound(t *testing.T) {
	out, err := run(t, "no tools here", "decode")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestRedactRestore_JSON(t *testing.T) {
	out, err := run(t, `{"to":["alice@example.com"],"n":1}`, "redact")
	require.NoError(t, err)
	assert.JSONEq(t, `{"to":["EMAIL_1"],"n":1}`, out)

	out, err = run(t, out, "restore")
	require.NoError(t, err)
	assert.JSONEq(t, `{"to":["alice@example.com"],"n":1}`, out)
}

func TestRedact_Text(t *testing.T) {
	out, err := run(t, "ping alice@example.com", "redact", "--text")
	require.NoError(t, err)
	assert.Equal(t, "ping EMAIL_1", out)
}

func TestRedact_RejectsNonJSON(t *testing.T) {
	_, err := run(t, "plain words", "redact")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--text")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "2 tools, 1 privacy pairs")

	_, err = run(t, `{"query":"go"}`, "validate", "--tool", "search")
	require.NoError(t, err)

	_, err = run(t, `{"query":1}`, "validate", "--tool", "search")
	require.Error(t, err)
	assert.ErrorIs(t, err, toolwire.ErrValidation)

	_, err = run(t, `{"query":"go","extra":true}`, "validate", "--tool", "search")
	require.NoError(t, err)

	_, err = run(t, `{"query":"go","extra":true}`, "validate", "--tool", "search", "--strict")
	require.Error(t, err)
	assert.True(t, toolwire.IsClientError(err))

	_, err = run(t, `{}`, "validate", "--tool", "missing")
	assert.ErrorIs(t, err, toolwire.ErrToolNotFound)
}

func TestSchema(t *testing.T) {
	out, err := run(t, "", "schema")
	require.NoError(t, err)

	var got map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Contains(t, got, "search")
	assert.Equal(t, "json", got["search"]["type"])
	assert.Equal(t, "object", got["search"]["parameters"].(map[string]any)["type"])
	assert.Nil(t, got["write_file"]["parameters"])
}

func TestBadConfig(t *testing.T) {
	cmd := newRootCmd(map[string]string{"TOOLWIRE_CONFIG": filepath.Join(t.TempDir(), "missing.yaml")})
	cmd.SetArgs([]string{"schema"})
	cmd.SetOut(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
