package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with a fresh configuration and an empty home
// directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	homedir.DisableCache = true
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCmd(viper.New())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEmitCode(t *testing.T) {
	out, err := execute(t, "", "emit", "--code", "x = a ** b")
	require.NoError(t, err)
	require.Equal(t, "x = Math.pow(a, b);\n", out)
}

func TestEmitStdin(t *testing.T) {
	out, err := execute(t, "y = { ...a, b: 1 }", "emit", "--stdin")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "var __assign"))
	require.True(t, strings.HasSuffix(out, "y = __assign({}, a, { b: 1 });\n"))
}

func TestEmitFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.js")
	b := filepath.Join(dir, "b.js")
	require.NoError(t, os.WriteFile(a, []byte("x **= 2"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("f(1)"), 0o644))

	out, err := execute(t, "", "emit", a, b)
	require.NoError(t, err)
	require.Equal(t, "// "+a+"\nx = Math.pow(x, 2);\n// "+b+"\nf(1);\n", out)
}

func TestEmitOutDir(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(src, []byte("z = 2 ** 8"), 0o644))

	out, err := execute(t, "", "emit", "--out-dir", outDir, src)
	require.NoError(t, err)
	require.Empty(t, out)
	data, err := os.ReadFile(filepath.Join(outDir, "app.js"))
	require.NoError(t, err)
	require.Equal(t, "z = Math.pow(2, 8);\n", string(data))
}

func TestEmitErrors(t *testing.T) {
	_, err := execute(t, "", "emit", "--code", "x = 1\n1 = a")
	require.Error(t, err)
	msg := formatError(err)
	require.Contains(t, msg, "invalid assignment target")
	require.Contains(t, msg, " | 1 = a")

	_, err = execute(t, "", "emit", "--code", "q = Relay.QL`{ a }`")
	require.Error(t, err)
	require.Contains(t, formatError(err), "no macro schema is configured")

	_, err = execute(t, "", "emit", "--code", "x", "a.js")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "", "emit", "--code", "x", "--stdin")
	require.EqualError(t, err, "multiple input sources specified")

	_, err = execute(t, "", "emit")
	require.ErrorContains(t, err, "no input provided")

	_, err = execute(t, "", "emit", filepath.Join(t.TempDir(), "missing.js"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestMacroTagFromConfig(t *testing.T) {
	src := "q = Gql.Query`{ a }`"
	out, err := execute(t, "", "emit", "--code", src)
	require.NoError(t, err)
	require.Equal(t, "q = Gql.Query`{ a }`;\n", out)

	cfg := filepath.Join(t.TempDir(), "lower.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("macro-tag: Gql.Query\n"), 0o644))
	_, err = execute(t, "", "--config", cfg, "emit", "--code", src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no macro schema is configured")

	t.Setenv("LOWER_MACRO_TAG", "Gql.Query")
	_, err = execute(t, "", "emit", "--code", src)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no macro schema is configured")
}

func TestHomeConfig(t *testing.T) {
	homedir.DisableCache = true
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".lower.yaml"), []byte("macro-tag: Gql.Query\n"), 0o644))

	cmd := newRootCmd(viper.New())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"emit", "--code", "q = Gql.Query`{ a }`"})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "no macro schema is configured")
}

func TestBadSettings(t *testing.T) {
	_, err := execute(t, "", "--log-level", "loud", "emit", "--code", "x")
	require.ErrorContains(t, err, `invalid log level "loud"`)

	_, err = execute(t, "", "--config", filepath.Join(t.TempDir(), "none.yaml"), "emit", "--code", "x")
	require.ErrorContains(t, err, "failed to read config file")

	_, err = execute(t, "", "--macro-plugin", filepath.Join(t.TempDir(), "none.wasm"), "emit", "--code", "x")
	require.Error(t, err)
}

func TestLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "lower.log")
	_, err := execute(t, "", "--log-level", "debug", "--log-file", logFile, "emit", "--code", "x = a ** 2")
	require.NoError(t, err)
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"lowering exponentiation"`)
}

func TestAst(t *testing.T) {
	out, err := execute(t, "", "ast", "--code", "a ** b")
	require.NoError(t, err)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Equal(t, "SourceFile", tree["kind"])
	stmt := tree["statements"].([]any)[0].(map[string]any)
	expr := stmt["expression"].(map[string]any)
	require.Equal(t, "Binary", expr["kind"])
	require.Equal(t, "**", expr["op"])

	out, err = execute(t, "", "ast", "--lowered", "--code", "a ** b")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	stmt = tree["statements"].([]any)[0].(map[string]any)
	require.Equal(t, "Call", stmt["expression"].(map[string]any)["kind"])

	_, err = execute(t, "", "ast", "a.js", "b.js")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "lower dev (commit unknown, built unknown)\n", out)

	out, err = execute(t, "", "version", "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"version":"dev","commit":"unknown","date":"unknown"}`, out)

	_, err = execute(t, "", "version", "-o", "xml")
	require.EqualError(t, err, "unknown output format: xml")
}

func TestServe(t *testing.T) {
	input := `{"seq":1,"type":"request","command":"open","arguments":{"file":"/a.js","fileContent":"x = 1"}}` + "\n" +
		`{"seq":2,"type":"request","command":"exit"}` + "\n"
	out, err := execute(t, input, "serve")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Content-Length: "))
	require.Contains(t, out, `"request_seq":1`)
	require.Equal(t, 1, strings.Count(out, "Content-Length: "))
}
