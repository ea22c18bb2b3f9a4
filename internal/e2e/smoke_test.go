package e2e

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	_, stderr, err := runLounge(t, binaryPath, home, "profile", "set", "--name", "Smoke")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runLounge(t, binaryPath, home, "send", "hello from the smoke test")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Equal(t, "Smoke: hello from the smoke test\n", stdout)

	stdout, stderr, err = runLounge(t, binaryPath, home, "feed")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Smoke: hello from the smoke test")

	stdout, stderr, err = runLounge(t, binaryPath, home, "presence", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.EqualValues(t, 0, summary["viewers"])
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "lounge-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/lounge")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build lounge binary: %s", string(output))
	return binaryPath
}

func runLounge(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "HOME="+home)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
