package adapters

import (
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/internal/types"
)

func writeIndexFile(t *testing.T) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "repo-index.yaml", `pip:
  numpy: ["1.26.2", "1.26.1"]
  ffmpeg-python: ["0.2.0"]
apt:
  ffmpeg: ["7:6.1-1ubuntu1"]
`)
}

func TestRepoIndexAvailableVersions(t *testing.T) {
	adapter := NewRepoIndexFileAdapter(writeIndexFile(t))

	versions, err := adapter.AvailableVersions(types.DependencyTypePip, "numpy")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.26.2", "1.26.1"}, versions)

	versions, err = adapter.AvailableVersions(types.DependencyTypeApt, "ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, []string{"7:6.1-1ubuntu1"}, versions)
}

func TestRepoIndexNormalizedLookup(t *testing.T) {
	adapter := NewRepoIndexFileAdapter(writeIndexFile(t))

	versions, err := adapter.AvailableVersions(types.DependencyTypePip, "FFmpeg_Python")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.2.0"}, versions)
}

func TestRepoIndexUnknownPackage(t *testing.T) {
	adapter := NewRepoIndexFileAdapter(writeIndexFile(t))

	versions, err := adapter.AvailableVersions(types.DependencyTypePip, "unknown-package")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestRepoIndexMissingFile(t *testing.T) {
	adapter := NewRepoIndexFileAdapter(filepath.Join(t.TempDir(), "repo-index.yaml"))

	_, err := adapter.AvailableVersions(types.DependencyTypePip, "numpy")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestRepoIndexInvalidYaml(t *testing.T) {
	path := writeFile(t, t.TempDir(), "repo-index.yaml", "pip: [not: a: map\n")
	adapter := NewRepoIndexFileAdapter(path)

	_, err := adapter.AvailableVersions(types.DependencyTypePip, "numpy")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
