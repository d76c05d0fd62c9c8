package adapters

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/ports"
	"pindown/internal/types"
)

// ProfileSourceAdapter loads the profile requirement files a project
// spec names. Requirements loaded here carry "profile:<name>:" source
// prefixes so the resolver can rank them above the base manifest.
type ProfileSourceAdapter struct {
	Manifests ManifestFileAdapter
	BaseDir   string
}

func NewProfileSourceAdapter(manifests ManifestFileAdapter) ProfileSourceAdapter {
	return ProfileSourceAdapter{Manifests: manifests}
}

// WithBaseDir resolves relative profile paths against dir, normally the
// directory holding the project spec.
func (a ProfileSourceAdapter) WithBaseDir(dir string) ProfileSourceAdapter {
	a.BaseDir = dir
	return a
}

func (a ProfileSourceAdapter) LoadProfiles(spec types.ProjectSpec, selected []string) ([]types.Manifest, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	byName := map[string]types.ProfileRef{}
	for _, profile := range spec.Profiles {
		byName[profile.Name] = profile
	}
	var manifests []types.Manifest
	for _, name := range selected {
		name = strings.TrimSpace(name)
		profile, ok := byName[name]
		if !ok {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("project spec defines no profile named %s", name))
		}
		path := profile.Path
		if a.BaseDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(a.BaseDir, path)
		}
		manifest, err := a.Manifests.LoadRequirements(path)
		if err != nil {
			return nil, err
		}
		for i := range manifest.Requirements {
			manifest.Requirements[i].Source = fmt.Sprintf("profile:%s:%s", profile.Name, manifest.Requirements[i].Source)
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}

var _ ports.ProfileSourcePort = ProfileSourceAdapter{}
