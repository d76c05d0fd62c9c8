package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/internal/adapters"
	"pindown/internal/core"
	"pindown/internal/policies"
	"pindown/internal/types"
)

// TestSpecValidateFlow exercises the project spec workflow end to end:
//
//	load spec -> validate spec -> gather requirements -> check manifests
//
// This verifies the pipeline a new user walks through after writing
// their first pindown.yaml next to an existing requirements.txt.
func TestSpecValidateFlow(t *testing.T) {
	dir := t.TempDir()

	specContent := `
api_version: pindown.dev/v1
kind: project
metadata:
  name: sample-app
  version: 0.1.0
  owners:
    - ci
defaults:
  target_python: "3.11"
  platform: linux
  output: out
policy:
  groups:
    - name: pinned
      mode: exact
      matches:
        - pip:requests
    - name: default
      mode: open
      matches:
        - "*"
`
	specPath := filepath.Join(dir, "pindown.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(specContent), 0o644))

	requirementsPath := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(requirementsPath, []byte("requests==2.31.0\nnumpy>=1.24\n"), 0o644))

	packagesPath := filepath.Join(dir, "packages.txt")
	require.NoError(t, os.WriteFile(packagesPath, []byte("curl\n"), 0o644))

	ctx := context.Background()

	// Step 1: Load and validate the spec.
	spec, err := adapters.NewSpecFileAdapter().LoadProject(specPath)
	require.NoError(t, err)
	require.NoError(t, core.NewSpecValidator().ValidateSpec(ctx, spec))

	// Step 2: Gather requirements from the base manifest and the sidecar.
	manifests := adapters.NewManifestFileAdapter()
	builder := core.NewRequirementBuilder(manifests, adapters.NewProfileSourceAdapter(manifests).WithBaseDir(dir))
	reqs, err := builder.Build(ctx, spec, requirementsPath, packagesPath, nil)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	// Step 3: Check manifests under the spec's pin policy.
	checker := core.NewManifestChecker().WithPolicy(policies.NewPinPolicy(spec.Policy.Groups))
	issues := checker.Check(ctx, reqs)
	assert.Empty(t, issues)

	byName := map[string]types.Requirement{}
	for _, req := range reqs {
		byName[req.Name] = req
	}
	assert.Equal(t, types.DependencyTypePip, byName["requests"].Type)
	assert.Equal(t, types.DependencyTypeApt, byName["curl"].Type)
}

// TestSpecValidateFlowRejectsLoosePin verifies the policy feedback loop:
// an exact group member with only a lower bound must surface an issue
// pointing at the offending manifest line.
func TestSpecValidateFlowRejectsLoosePin(t *testing.T) {
	dir := t.TempDir()

	specContent := `
api_version: pindown.dev/v1
kind: project
metadata:
  name: sample-app
  version: 0.1.0
  owners:
    - ci
policy:
  groups:
    - name: pinned
      mode: exact
      matches:
        - "*"
`
	specPath := filepath.Join(dir, "pindown.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(specContent), 0o644))

	requirementsPath := filepath.Join(dir, "requirements.txt")
	require.NoError(t, os.WriteFile(requirementsPath, []byte("requests>=2.0\n"), 0o644))

	ctx := context.Background()
	spec, err := adapters.NewSpecFileAdapter().LoadProject(specPath)
	require.NoError(t, err)

	manifests := adapters.NewManifestFileAdapter()
	builder := core.NewRequirementBuilder(manifests, adapters.NewProfileSourceAdapter(manifests).WithBaseDir(dir))
	reqs, err := builder.Build(ctx, spec, requirementsPath, "", nil)
	require.NoError(t, err)

	checker := core.NewManifestChecker().WithPolicy(policies.NewPinPolicy(spec.Policy.Groups))
	issues := checker.Check(ctx, reqs)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "requires an exact pin")
	assert.Equal(t, "requirements.txt:1", issues[0].Source)
}
