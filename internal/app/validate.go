package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/core"
	"pindown/internal/policies"
	"pindown/internal/types"
)

// Validate checks the project's manifests for well-formedness: every
// entry must parse, versions must be valid for their ecosystem, and no
// two entries may contradict each other. When a project spec is present
// its pin policy is enforced as well.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	inputs, spec, err := s.resolveInputs(req.SpecPath, req.Requirements, req.Packages, req.Root)
	if err != nil {
		return ValidateResult{}, err
	}

	if inputs.specPath != "" {
		validator := core.NewSpecValidator()
		if err := validator.ValidateSpec(ctx, spec); err != nil {
			return ValidateResult{}, err
		}
	}

	builder := core.NewRequirementBuilder(s.Manifests, s.profileSource(inputs.specPath))
	reqs, err := builder.Build(ctx, spec, inputs.requirements, inputs.packages, req.Profiles)
	if err != nil {
		return ValidateResult{}, err
	}

	checker := core.NewManifestChecker()
	if len(spec.Policy.Groups) > 0 {
		checker = checker.WithPolicy(policies.NewPinPolicy(spec.Policy.Groups))
	}
	issues := checker.Check(ctx, reqs)

	return ValidateResult{
		ProjectName:      spec.Metadata.Name,
		RequirementCount: len(reqs),
		Issues:           issues,
	}, nil
}

type resolvedInputs struct {
	specPath     string
	requirements string
	packages     string
}

// resolveInputs settles the input paths for a run. Explicit flags win,
// then spec defaults, then workspace discovery under root.
func (s Service) resolveInputs(specPath string, requirements string, packages string, root string) (resolvedInputs, types.ProjectSpec, error) {
	inputs := resolvedInputs{
		specPath:     strings.TrimSpace(specPath),
		requirements: strings.TrimSpace(requirements),
		packages:     strings.TrimSpace(packages),
	}

	if inputs.requirements == "" && inputs.specPath == "" {
		searchRoot := strings.TrimSpace(root)
		if searchRoot == "" {
			searchRoot = "."
		}
		found, err := s.Workspace.FindManifests(searchRoot)
		if err != nil {
			return resolvedInputs{}, types.ProjectSpec{}, err
		}
		inputs.specPath = found.ProjectSpec
		inputs.requirements = found.Requirements
		if inputs.packages == "" {
			inputs.packages = found.Packages
		}
	}

	var spec types.ProjectSpec
	if inputs.specPath != "" {
		loaded, err := s.SpecLoader.LoadProject(inputs.specPath)
		if err != nil {
			return resolvedInputs{}, types.ProjectSpec{}, err
		}
		spec = loaded
		if inputs.requirements == "" {
			inputs.requirements = spec.Defaults.Requirements
		}
		if inputs.packages == "" {
			inputs.packages = spec.Defaults.Packages
		}
	}

	if inputs.requirements == "" {
		return resolvedInputs{}, types.ProjectSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("requirements file is required")
	}
	return inputs, spec, nil
}
