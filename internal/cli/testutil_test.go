package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is an isolated config and data directory for in-process runs.
type testEnv struct {
	t       *testing.T
	Config  string
	DataDir string
}

// newTestEnv writes a config.yaml pointing at a temp data directory and
// clears the REGISTRAR_* environment for the test.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{"REGISTRAR_BACKEND", "REGISTRAR_DSN", "REGISTRAR_LOG_LEVEL", "REGISTRAR_METRICS_FILE", "REGISTRAR_CONFIG_DIR", "REGISTRAR_DATA_DIR"} {
		t.Setenv(key, "")
	}

	tempDir := t.TempDir()
	env := &testEnv{
		t:       t,
		Config:  filepath.Join(tempDir, "config"),
		DataDir: filepath.Join(tempDir, "data"),
	}
	require.NoError(t, os.MkdirAll(env.Config, 0o755))
	content := "backend: sqlite\ndata_dir: " + env.DataDir + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.Config, configFileExt), []byte(content), 0o644))
	return env
}

// cmdResult holds the captured output of one command run.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// run executes the root command in-process with --config-dir prepended.
func (e *testEnv) run(args ...string) cmdResult {
	e.t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config-dir", e.Config}, args...))

	err := root.Execute()
	return cmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
		Err:      err,
	}
}

// mustRun executes the command and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.ExitCode,
		"registrar %v failed: %v\nstdout: %s\nstderr: %s", args, res.Err, res.Stdout, res.Stderr)
	return res
}

// parseJSON decodes command output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}
