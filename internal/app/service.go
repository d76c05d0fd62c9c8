package app

import (
	"path/filepath"
	"time"

	"pindown/internal/adapters"
	"pindown/internal/ports"
)

type Service struct {
	SpecLoader      ports.ProjectSpecPort
	Manifests       ports.ManifestPort
	ProfileSource   ports.ProfileSourcePort
	Workspace       ports.WorkspacePort
	OutputReader    ports.OutputReaderPort
	SBOMWriter      ports.SBOMPort
	RepoIndexBuild  ports.RepoIndexBuilderPort
	RepoIndexWriter ports.RepoIndexWriterPort
	Clock           func() time.Time
}

func NewService() Service {
	manifests := adapters.NewManifestFileAdapter()
	return Service{
		SpecLoader:      adapters.NewSpecFileAdapter(),
		Manifests:       manifests,
		ProfileSource:   adapters.NewProfileSourceAdapter(manifests),
		Workspace:       adapters.NewWorkspaceAdapter(),
		OutputReader:    adapters.NewOutputReaderAdapter(),
		SBOMWriter:      adapters.NewSBOMWriterAdapter(),
		RepoIndexBuild:  adapters.NewRepoIndexBuilderAdapter(),
		RepoIndexWriter: adapters.NewRepoIndexWriterAdapter(),
		Clock:           time.Now,
	}
}

// profileSource returns the profile loader with relative profile paths
// anchored at the spec file's directory.
func (s Service) profileSource(specPath string) ports.ProfileSourcePort {
	if fileSource, ok := s.ProfileSource.(adapters.ProfileSourceAdapter); ok && specPath != "" {
		return fileSource.WithBaseDir(filepath.Dir(specPath))
	}
	return s.ProfileSource
}
