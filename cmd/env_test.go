// The cmd package is tested end to end: each test builds the blockd binary
// once and drives it in a temporary project, so command parsing, the
// pipeline, the store and SQLite are all exercised together. Package-level
// unit tests cover the pieces in isolation.

package cmd

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the blockd binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "blockd-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "blockd"
		if os.PathSeparator == '\\' {
			binaryName = "blockd.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newBareEnv creates a temporary project without running init. HOME points
// at its own temp directory so global config and the audit log never leak
// between tests.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:      t,
		dir:    t.TempDir(),
		home:   t.TempDir(),
		binary: buildBinary(t),
	}
}

// newTestEnv creates a temporary directory with an initialised store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newBareEnv(t)
	env.run("init")
	return env
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	env := []string{"HOME=" + e.home, "USERPROFILE=" + e.home}
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		switch k {
		case "HOME", "USERPROFILE", "BLOCKD_DB", "BLOCKD_DIR":
			continue
		}
		env = append(env, kv)
	}
	cmd.Env = env
	return cmd
}

// run executes blockd with the given args and returns its output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("blockd %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes blockd and returns its output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runStdin executes blockd with stdin input.
func (e *testEnv) runStdin(input string, args ...string) string {
	e.t.Helper()
	out, err := e.runStdinErr(input, args...)
	if err != nil {
		e.t.Fatalf("blockd %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runStdinErr executes blockd with stdin input and returns any error.
func (e *testEnv) runStdinErr(input string, args ...string) (string, error) {
	e.t.Helper()
	cmd := e.command(args...)
	cmd.Stdin = strings.NewReader(input)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// runJSON executes blockd with -o json and decodes the output into v.
func (e *testEnv) runJSON(v any, input string, args ...string) {
	e.t.Helper()
	out := e.runStdin(input, append(args, "-o", "json")...)
	require.NoError(e.t, json.Unmarshal([]byte(strings.TrimSpace(out)), v), "output: %s", out)
}

// create stores content and returns the new item's key.
func (e *testEnv) create(content string) string {
	e.t.Helper()
	var res struct {
		Key     string `json:"key"`
		Version int    `json:"version"`
	}
	e.runJSON(&res, content, "create", "-a", "tester")
	require.NotEmpty(e.t, res.Key)
	require.Equal(e.t, 1, res.Version)
	return res.Key
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// Content requests shared across tests.
const (
	testNote = `{
  "type": " note ",
  "title": "  Release   notes ",
  "summary": "What changed\r\n\r\n\r\nthis week",
  "blocks": [
    {"kind": "Markdown", "source": "First paragraph.\r\n"},
    {"kind": "code", "language": " Go ", "source": "fmt.Println(\"hi\")"}
  ]
}`

	testInvalid = `{
  "type": "note",
  "blocks": [
    {"kind": "markdown", "source": "   "},
    {"kind": "code", "source": "x"}
  ],
  "extra": true
}`

	testUnknownKind = `{"type": "note", "blocks": [{"kind": "video", "source": "x"}]}`
)
