package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pindown/internal/types"
)

func baseProjectSpec() types.ProjectSpec {
	return types.ProjectSpec{
		APIVersion: "pindown.dev/v1",
		Kind:       types.SpecKindProject,
		Metadata: types.Metadata{
			Name:    "accent-analyzer",
			Version: "1.0.0",
			Owners:  []string{"ml-platform@example.com"},
		},
		Profiles: []types.ProfileRef{
			{Name: "dev", Path: "requirements-dev.txt"},
		},
		Policy: types.PinPolicySpec{
			Groups: []types.PinGroup{
				{Name: "models", Mode: types.PinModeExact, Matches: []string{"pip:torch*"}},
				{Name: "default", Mode: types.PinModeOpen, Matches: []string{"*"}},
			},
		},
	}
}

func TestValidateSpecCases(t *testing.T) {
	validator := NewSpecValidator()

	tests := []struct {
		name    string
		build   func() types.ProjectSpec
		wantErr bool
	}{
		{
			name:    "valid spec",
			build:   baseProjectSpec,
			wantErr: false,
		},
		{
			name: "empty owners",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Metadata.Owners = nil
				return spec
			},
			wantErr: true,
		},
		{
			name: "duplicate profile",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Profiles = append(spec.Profiles, types.ProfileRef{Name: "dev", Path: "other.txt"})
				return spec
			},
			wantErr: true,
		},
		{
			name: "profile missing path",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Profiles[0].Path = ""
				return spec
			},
			wantErr: true,
		},
		{
			name: "pin group invalid mode",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Policy.Groups[0].Mode = "strict"
				return spec
			},
			wantErr: true,
		},
		{
			name: "pin group missing matches",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Policy.Groups[0].Matches = nil
				return spec
			},
			wantErr: true,
		},
		{
			name: "override missing value for force",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Overrides = []types.OverrideDirective{
					{Dependency: "pip:protobuf", Action: "force", Reason: "r", Owner: "o"},
				}
				return spec
			},
			wantErr: true,
		},
		{
			name: "override untyped dependency",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Overrides = []types.OverrideDirective{
					{Dependency: "protobuf", Action: "relax", Reason: "r", Owner: "o"},
				}
				return spec
			},
			wantErr: true,
		},
		{
			name: "override invalid action",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Overrides = []types.OverrideDirective{
					{Dependency: "pip:protobuf", Action: "pin", Reason: "r", Owner: "o"},
				}
				return spec
			},
			wantErr: true,
		},
		{
			name: "valid override",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Overrides = []types.OverrideDirective{
					{Dependency: "pip:protobuf", Action: "force", Value: "4.25.1", Reason: "r", Owner: "o"},
				}
				return spec
			},
			wantErr: false,
		},
		{
			name: "invalid target python",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Defaults.TargetPython = "not-a-version"
				return spec
			},
			wantErr: true,
		},
		{
			name: "valid target python",
			build: func() types.ProjectSpec {
				spec := baseProjectSpec()
				spec.Defaults.TargetPython = "3.11"
				return spec
			},
			wantErr: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidateSpec(context.Background(), tc.build())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsTypedDependency(t *testing.T) {
	require.True(t, isTypedDependency("pip:protobuf"))
	require.True(t, isTypedDependency("apt:ffmpeg"))
	require.False(t, isTypedDependency("protobuf"))
	require.False(t, isTypedDependency("npm:leftpad"))
	require.False(t, isTypedDependency("pip:"))
}
