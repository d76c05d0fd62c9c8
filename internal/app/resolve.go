package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/adapters"
	"pindown/internal/core"
	"pindown/internal/policies"
	"pindown/internal/types"
)

// Resolve computes a pinned version set without writing lock files.
func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	spec, result, err := s.resolveCommon(ctx, resolveParams{
		SpecPath:     req.SpecPath,
		Requirements: req.Requirements,
		Packages:     req.Packages,
		Profiles:     req.Profiles,
		RepoIndex:    req.RepoIndex,
		TargetPython: req.TargetPython,
		Platform:     req.Platform,
	})
	if err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{
		ProjectName: spec.Metadata.Name,
		Locks:       result.Locks,
		Skipped:     result.Skipped,
		Audit:       result.Audit,
	}, nil
}

// Lock resolves the project's requirements and writes the lock outputs:
// requirements.lock, packages.lock, lock.intent and audit.report.
func (s Service) Lock(ctx context.Context, req LockRequest) (LockResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)

	spec, result, err := s.resolveCommon(ctx, resolveParams{
		SpecPath:     req.SpecPath,
		Requirements: req.Requirements,
		Packages:     req.Packages,
		Profiles:     req.Profiles,
		RepoIndex:    req.RepoIndex,
		TargetPython: req.TargetPython,
		Platform:     req.Platform,
	})
	if err != nil {
		return LockResult{}, err
	}
	emitHints(checkLockDefaultsHints(req, spec.Defaults))

	if outputDir == "" {
		outputDir = spec.Defaults.Output
	}
	if outputDir == "" {
		return LockResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}

	targetPython := strings.TrimSpace(req.TargetPython)
	if targetPython == "" {
		targetPython = spec.Defaults.TargetPython
	}

	lockID := strings.TrimSpace(req.LockID)
	if lockID == "" {
		lockID = buildLockID(spec.Metadata.Name, targetPython, result.Locks)
	}

	output := adapters.NewOutputFileAdapter(outputDir)
	if err := output.WriteRequirementsLock(result.Locks); err != nil {
		return LockResult{}, err
	}
	if err := output.WritePackagesLock(result.Locks); err != nil {
		return LockResult{}, err
	}
	intent := buildLockIntent(spec.Metadata.Name, targetPython, lockID, s.Clock)
	if err := output.WriteLockIntent(intent); err != nil {
		return LockResult{}, err
	}
	if err := output.WriteAuditReport(result.Audit); err != nil {
		return LockResult{}, err
	}

	if req.SBOM {
		sbomPath := strings.TrimSpace(req.SBOMPath)
		if sbomPath == "" {
			sbomPath = filepath.Join(outputDir, lockID+".sbom.json")
		}
		if err := s.SBOMWriter.WriteSBOM(sbomPath, spec.Metadata.Name, lockID, intent.CreatedAt, result.Locks); err != nil {
			return LockResult{}, err
		}
	}

	pipCount := 0
	aptCount := 0
	for _, entry := range result.Locks {
		if entry.Type == types.DependencyTypeApt {
			aptCount++
			continue
		}
		pipCount++
	}
	return LockResult{
		ProjectName: spec.Metadata.Name,
		LockID:      lockID,
		OutputDir:   outputDir,
		PipCount:    pipCount,
		AptCount:    aptCount,
		Skipped:     result.Skipped,
	}, nil
}

type resolveParams struct {
	SpecPath     string
	Requirements string
	Packages     string
	Profiles     []string
	RepoIndex    string
	TargetPython string
	Platform     string
}

func (s Service) resolveCommon(ctx context.Context, params resolveParams) (types.ProjectSpec, core.ResolveResult, error) {
	inputs, spec, err := s.resolveInputs(params.SpecPath, params.Requirements, params.Packages, "")
	if err != nil {
		return types.ProjectSpec{}, core.ResolveResult{}, err
	}

	if inputs.specPath != "" {
		validator := core.NewSpecValidator()
		if err := validator.ValidateSpec(ctx, spec); err != nil {
			return types.ProjectSpec{}, core.ResolveResult{}, err
		}
	}

	repoIndex := strings.TrimSpace(params.RepoIndex)
	if repoIndex == "" {
		repoIndex = spec.Defaults.RepoIndex
	}
	if repoIndex == "" {
		return types.ProjectSpec{}, core.ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repo index file is required")
	}

	builder := core.NewRequirementBuilder(s.Manifests, s.profileSource(inputs.specPath))
	reqs, err := builder.Build(ctx, spec, inputs.requirements, inputs.packages, params.Profiles)
	if err != nil {
		return types.ProjectSpec{}, core.ResolveResult{}, err
	}

	checker := core.NewManifestChecker()
	if len(spec.Policy.Groups) > 0 {
		checker = checker.WithPolicy(policies.NewPinPolicy(spec.Policy.Groups))
	}
	if issues := checker.Check(ctx, reqs); len(issues) > 0 {
		return types.ProjectSpec{}, core.ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("manifest validation failed: %s", issues[0].Message))
	}

	env := core.MarkerEnv{
		PythonVersion: strings.TrimSpace(params.TargetPython),
		Platform:      strings.TrimSpace(params.Platform),
	}
	if env.PythonVersion == "" {
		env.PythonVersion = spec.Defaults.TargetPython
	}
	if env.Platform == "" {
		env.Platform = spec.Defaults.Platform
	}

	resolver := core.NewResolverCore(adapters.NewRepoIndexFileAdapter(repoIndex), env)
	if s.Clock != nil {
		resolver.Now = s.Clock().UTC()
	}
	result, err := resolver.Resolve(ctx, reqs, spec.Overrides)
	if err != nil {
		return types.ProjectSpec{}, core.ResolveResult{}, err
	}
	return spec, result, nil
}

func buildLockIntent(project string, targetPython string, lockID string, clock func() time.Time) types.LockIntent {
	now := time.Now().UTC()
	if clock != nil {
		now = clock().UTC()
	}
	return types.LockIntent{
		Project:      project,
		TargetPython: targetPython,
		LockID:       lockID,
		CreatedAt:    now.Format(time.RFC3339),
	}
}

func buildLockID(project string, targetPython string, locks []types.LockEntry) string {
	ordered := append([]types.LockEntry(nil), locks...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Type != ordered[j].Type {
			return ordered[i].Type < ordered[j].Type
		}
		return ordered[i].Package < ordered[j].Package
	})
	var builder strings.Builder
	builder.WriteString(project)
	builder.WriteString("\n")
	builder.WriteString(targetPython)
	builder.WriteString("\n")
	for _, entry := range ordered {
		builder.WriteString(string(entry.Type))
		builder.WriteString(":")
		builder.WriteString(entry.Package)
		builder.WriteString("=")
		builder.WriteString(entry.Version)
		builder.WriteString("\n")
	}
	sum := sha256.Sum256([]byte(builder.String()))
	return fmt.Sprintf("lock-%s", hex.EncodeToString(sum[:])[:12])
}
