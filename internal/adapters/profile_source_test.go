package adapters

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/internal/types"
)

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "requirements-dev.txt", "pytest==7.4.3\nruff==0.1.9\n")
	spec := types.ProjectSpec{
		Profiles: []types.ProfileRef{{Name: "dev", Path: "requirements-dev.txt"}},
	}

	adapter := NewProfileSourceAdapter(NewManifestFileAdapter()).WithBaseDir(dir)
	manifests, err := adapter.LoadProfiles(spec, []string{"dev"})
	require.NoError(t, err)

	require.Len(t, manifests, 1)
	require.Len(t, manifests[0].Requirements, 2)
	assert.Equal(t, "pytest", manifests[0].Requirements[0].Name)
	assert.Equal(t, "profile:dev:requirements-dev.txt:1", manifests[0].Requirements[0].Source)
}

func TestLoadProfilesNoneSelected(t *testing.T) {
	adapter := NewProfileSourceAdapter(NewManifestFileAdapter())
	manifests, err := adapter.LoadProfiles(types.ProjectSpec{}, nil)
	require.NoError(t, err)
	assert.Nil(t, manifests)
}

func TestLoadProfilesUnknownName(t *testing.T) {
	spec := types.ProjectSpec{
		Profiles: []types.ProfileRef{{Name: "dev", Path: "requirements-dev.txt"}},
	}

	adapter := NewProfileSourceAdapter(NewManifestFileAdapter())
	_, err := adapter.LoadProfiles(spec, []string{"staging"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "staging")
}
