package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/tests/testutil"
)

func TestLockCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)
	outDir := t.TempDir()

	cmd := exec.Command("go", "run", "./cmd/pindown", "lock",
		"--spec", "fixtures/pindown.yaml",
		"--requirements", "fixtures/requirements.txt",
		"--packages", "fixtures/packages.txt",
		"--repo-index", "fixtures/repo-index.yaml",
		"--output", outDir,
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))

	require.FileExists(t, filepath.Join(outDir, "requirements.lock"))
	require.FileExists(t, filepath.Join(outDir, "packages.lock"))
	require.FileExists(t, filepath.Join(outDir, "lock.intent"))
	require.FileExists(t, filepath.Join(outDir, "audit.report"))

	locks, err := os.ReadFile(filepath.Join(outDir, "requirements.lock"))
	require.NoError(t, err)
	assert.Contains(t, string(locks), "protobuf==4.25.1")
	assert.NotContains(t, string(locks), "audioop-lts")
}

func TestValidateCommandE2E(t *testing.T) {
	root := testutil.RepoRoot(t)

	cmd := exec.Command("go", "run", "./cmd/pindown", "validate",
		"--spec", "fixtures/pindown.yaml",
		"--requirements", "fixtures/requirements.txt",
		"--packages", "fixtures/packages.txt",
	)
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "GO111MODULE=on")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	assert.True(t, strings.Contains(string(out), "validated: accent-analyzer"), string(out))
}
