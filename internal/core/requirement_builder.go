package core

import (
	"context"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pindown/internal/ports"
	"pindown/internal/types"
)

// RequirementBuilder collects the full requirement list for a lock run:
// the base requirements file, the optional apt sidecar, and any selected
// profile sets layered on top.
type RequirementBuilder struct {
	Manifests ports.ManifestPort
	Profiles  ports.ProfileSourcePort
}

func NewRequirementBuilder(manifests ports.ManifestPort, profiles ports.ProfileSourcePort) RequirementBuilder {
	return RequirementBuilder{
		Manifests: manifests,
		Profiles:  profiles,
	}
}

func (b RequirementBuilder) Build(ctx context.Context, spec types.ProjectSpec, requirementsPath string, packagesPath string, selected []string) ([]types.Requirement, error) {
	if requirementsPath == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("requirements path is required")
	}

	manifest, err := b.Manifests.LoadRequirements(requirementsPath)
	if err != nil {
		return nil, err
	}
	reqs := append([]types.Requirement(nil), manifest.Requirements...)

	if packagesPath != "" {
		system, err := b.Manifests.LoadSystemPackages(packagesPath)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, system...)
	}

	if len(selected) > 0 && b.Profiles == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("profiles selected but no profile source configured")
	}
	if b.Profiles != nil {
		profileManifests, err := b.Profiles.LoadProfiles(spec, selected)
		if err != nil {
			return nil, err
		}
		for _, profile := range profileManifests {
			reqs = append(reqs, profile.Requirements...)
		}
	}

	log.Ctx(ctx).Debug().Int("requirements", len(reqs)).Msg("requirements collected")
	return reqs, nil
}
