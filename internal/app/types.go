package app

import (
	"pindown/internal/core"
	"pindown/internal/types"
)

type ValidateRequest struct {
	SpecPath     string
	Requirements string
	Packages     string
	Profiles     []string
	Root         string
}

type ValidateResult struct {
	ProjectName      string
	RequirementCount int
	Issues           []core.Issue
}

type FmtRequest struct {
	Requirements string
	Write        bool
}

type FmtResult struct {
	Formatted string
	Changed   bool
}

type ResolveRequest struct {
	SpecPath     string
	Requirements string
	Packages     string
	Profiles     []string
	RepoIndex    string
	TargetPython string
	Platform     string
}

type ResolveResult struct {
	ProjectName string
	Locks       []types.LockEntry
	Skipped     []types.SkippedRequirement
	Audit       types.AuditReport
}

type LockRequest struct {
	SpecPath     string
	Requirements string
	Packages     string
	Profiles     []string
	RepoIndex    string
	OutputDir    string
	TargetPython string
	Platform     string
	LockID       string
	SBOM         bool
	SBOMPath     string
}

type LockResult struct {
	ProjectName string
	LockID      string
	OutputDir   string
	PipCount    int
	AptCount    int
	Skipped     []types.SkippedRequirement
}

type IndexRequest struct {
	Output           string
	PipIndex         string
	PipUser          string
	PipAPIKey        string
	PipPackages      []string
	PipWorkers       int
	AptEndpoint      string
	AptDistribution  string
	AptComponent     string
	AptArch          string
	AptUser          string
	AptAPIKey        string
	AptPackages      []string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type IndexResult struct {
	OutputPath string
	PipCount   int
	AptCount   int
}

type InspectRequest struct {
	OutputDir string
}

type InspectResult struct {
	Intent   types.LockIntent
	PipLocks []types.LockEntry
	AptLocks []types.LockEntry
	Records  []types.AuditRecord
}

type SBOMRequest struct {
	OutputDir string
	Output    string
}

type SBOMResult struct {
	OutputPath   string
	PackageCount int
}
