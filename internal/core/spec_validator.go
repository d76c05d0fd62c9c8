package core

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pindown/internal/policies"
	"pindown/internal/types"
)

type SpecValidator struct{}

var validPinModes = map[types.PinMode]struct{}{
	types.PinModeExact:   {},
	types.PinModeBounded: {},
	types.PinModeOpen:    {},
}

func NewSpecValidator() SpecValidator {
	return SpecValidator{}
}

func (v SpecValidator) ValidateSpec(ctx context.Context, spec types.ProjectSpec) error {
	assert.NotEmpty(ctx, spec.APIVersion, "api_version must be set")
	assert.NotEmpty(ctx, string(spec.Kind), "kind must be set")
	assert.NotEmpty(ctx, spec.Metadata.Name, "metadata.name must be set")
	assert.NotEmpty(ctx, spec.Metadata.Version, "metadata.version must be set")
	if len(spec.Metadata.Owners) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("metadata.owners must not be empty")
	}
	if spec.Kind != types.SpecKindProject {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("spec kind must be project")
	}
	if err := validateProfiles(spec.Profiles); err != nil {
		return err
	}
	for _, group := range spec.Policy.Groups {
		if err := validatePinGroup(group); err != nil {
			return err
		}
	}
	if err := validateOverrides(spec.Overrides); err != nil {
		return err
	}
	if spec.Defaults.TargetPython != "" {
		cache := newVersionCache(types.DependencyTypePip)
		if _, err := cache.pepVersion(spec.Defaults.TargetPython); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("defaults.target_python is not a valid version: %s", spec.Defaults.TargetPython)).
				WithCause(err)
		}
	}
	log.Ctx(ctx).Debug().Str("spec", spec.Metadata.Name).Msg("project spec validated")
	return nil
}

func validateProfiles(profiles []types.ProfileRef) error {
	seen := map[string]struct{}{}
	for _, profile := range profiles {
		if strings.TrimSpace(profile.Name) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("profiles.name must not be empty")
		}
		if strings.TrimSpace(profile.Path) == "" {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("profile %s missing path", profile.Name))
		}
		if _, ok := seen[profile.Name]; ok {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate profile: %s", profile.Name))
		}
		seen[profile.Name] = struct{}{}
	}
	return nil
}

func validatePinGroup(group types.PinGroup) error {
	if group.Name == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("policy.groups.name must not be empty")
	}
	if group.Mode == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("pin group %s missing mode", group.Name))
	}
	if _, ok := validPinModes[group.Mode]; !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("pin group %s has invalid mode %s", group.Name, group.Mode))
	}
	if len(group.Matches) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("pin group %s missing matches", group.Name))
	}
	return nil
}

func validateOverrides(overrides []types.OverrideDirective) error {
	for _, directive := range overrides {
		if err := validateOverrideDirective(directive); err != nil {
			return err
		}
	}
	return nil
}

func validateOverrideDirective(directive types.OverrideDirective) error {
	if strings.TrimSpace(directive.Dependency) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive dependency must not be empty")
	}
	if !isTypedDependency(directive.Dependency) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("override directive dependency must be typed (pip:name or apt:name): %s", directive.Dependency))
	}
	action := strings.ToLower(strings.TrimSpace(directive.Action))
	if action == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive action must not be empty")
	}
	switch action {
	case policies.ActionForce, policies.ActionRelax, policies.ActionReplace, policies.ActionBlock:
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("override directive has invalid action: %s", directive.Action))
	}
	if strings.TrimSpace(directive.Reason) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive reason must not be empty")
	}
	if strings.TrimSpace(directive.Owner) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive owner must not be empty")
	}
	if (action == policies.ActionForce || action == policies.ActionReplace) && strings.TrimSpace(directive.Value) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("override directive value must not be empty for force/replace actions")
	}
	return nil
}

func isTypedDependency(value string) bool {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return false
	}
	switch strings.ToLower(parts[0]) {
	case "pip", "apt":
		return strings.TrimSpace(parts[1]) != ""
	default:
		return false
	}
}
