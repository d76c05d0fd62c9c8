package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// SBOM renders an SPDX document from an existing lock directory.
func (s Service) SBOM(req SBOMRequest) (SBOMResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return SBOMResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	inspect, err := s.Inspect(InspectRequest{OutputDir: outputDir})
	if err != nil {
		return SBOMResult{}, err
	}
	entries := append(inspect.PipLocks, inspect.AptLocks...)

	path := strings.TrimSpace(req.Output)
	if path == "" {
		path = filepath.Join(outputDir, inspect.Intent.LockID+".sbom.json")
	}
	if err := s.SBOMWriter.WriteSBOM(path, inspect.Intent.Project, inspect.Intent.LockID, inspect.Intent.CreatedAt, entries); err != nil {
		return SBOMResult{}, err
	}
	return SBOMResult{
		OutputPath:   path,
		PackageCount: len(entries),
	}, nil
}
