package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindManifests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "streamlit==1.29.0\n")
	writeFile(t, root, "packages.txt", "ffmpeg\n")
	writeFile(t, root, "requirements-dev.txt", "pytest==7.4.3\n")
	writeFile(t, root, "requirements-ci.txt", "ruff==0.1.9\n")
	writeFile(t, root, "pindown.yaml", "kind: project\n")

	set, err := NewWorkspaceAdapter().FindManifests(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "requirements.txt"), set.Requirements)
	assert.Equal(t, filepath.Join(root, "packages.txt"), set.Packages)
	assert.Equal(t, filepath.Join(root, "pindown.yaml"), set.ProjectSpec)
	assert.Equal(t, []string{
		filepath.Join(root, "requirements-ci.txt"),
		filepath.Join(root, "requirements-dev.txt"),
	}, set.ProfileFiles)
}

func TestFindManifestsShallowestWins(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeFile(t, nested, "requirements.txt", "requests==2.31.0\n")
	writeFile(t, root, "requirements.txt", "streamlit==1.29.0\n")

	set, err := NewWorkspaceAdapter().FindManifests(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "requirements.txt"), set.Requirements)
}

func TestFindManifestsSkipsVendorDirs(t *testing.T) {
	root := t.TempDir()
	venv := filepath.Join(root, ".venv", "lib")
	require.NoError(t, os.MkdirAll(venv, 0o755))
	writeFile(t, venv, "requirements.txt", "should-not-be-found==1.0\n")

	_, err := NewWorkspaceAdapter().FindManifests(root)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestFindManifestsEmptyRoot(t *testing.T) {
	_, err := NewWorkspaceAdapter().FindManifests("")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
