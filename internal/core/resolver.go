package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pindown/internal/policies"
	"pindown/internal/ports"
	"pindown/internal/shared"
	"pindown/internal/types"
)

type ResolverCore struct {
	RepoIndex ports.RepoIndexPort
	Env       MarkerEnv
	Now       time.Time
}

type ResolveResult struct {
	Locks   []types.LockEntry
	Skipped []types.SkippedRequirement
	Audit   types.AuditReport
}

func NewResolverCore(repoIndex ports.RepoIndexPort, env MarkerEnv) ResolverCore {
	return ResolverCore{
		RepoIndex: repoIndex,
		Env:       env,
	}
}

// Resolve selects a pinned version for every merged requirement.
// Requirements whose markers do not hold for the target environment are
// skipped and reported. A requirement whose constraints cannot be met by
// any indexed version fails unless an override directive covers it.
func (r ResolverCore) Resolve(ctx context.Context, reqs []types.Requirement, directives []types.OverrideDirective) (ResolveResult, error) {
	if r.RepoIndex == nil {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires a repo index port")
	}

	now := r.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	merged := MergeRequirements(reqs)
	directiveMap := mapDirectives(directives, now)

	result := ResolveResult{
		Audit: types.AuditReport{Records: []types.AuditRecord{}},
	}

	for _, req := range merged {
		holds, err := EvaluateMarker(req.Marker, r.Env)
		if err != nil {
			return ResolveResult{}, err
		}
		if !holds {
			result.Skipped = append(result.Skipped, types.SkippedRequirement{
				Package: req.Name,
				Marker:  req.Marker,
			})
			continue
		}

		version, record, err := r.resolveRequirement(ctx, req, directiveMap)
		if err != nil {
			return ResolveResult{}, err
		}
		if record.Action != "" {
			result.Audit.Records = append(result.Audit.Records, record)
		}
		result.Locks = append(result.Locks, types.LockEntry{
			Type:    req.Type,
			Package: req.Name,
			Version: version,
		})
	}

	sort.Slice(result.Locks, func(i, j int) bool {
		if result.Locks[i].Type != result.Locks[j].Type {
			return result.Locks[i].Type < result.Locks[j].Type
		}
		return result.Locks[i].Package < result.Locks[j].Package
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Package < result.Skipped[j].Package
	})

	log.Ctx(ctx).Debug().Int("locked", len(result.Locks)).Int("skipped", len(result.Skipped)).Msg("resolver completed")
	return result, nil
}

func (r ResolverCore) resolveRequirement(ctx context.Context, req types.Requirement, directiveMap map[string]types.OverrideDirective) (string, types.AuditRecord, error) {
	available, err := r.RepoIndex.AvailableVersions(req.Type, req.Name)
	if err != nil {
		return "", types.AuditRecord{}, err
	}
	version, err := bestCompatibleVersion(req, available)
	if err == nil {
		return version, types.AuditRecord{}, nil
	}

	directive, ok := directiveFor(req, directiveMap)
	if !ok {
		return "", types.AuditRecord{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("conflict without override directive: %s", req.Name)).
			WithCause(err)
	}

	updated, record, err := policies.ApplyOverride(req, directive)
	if err != nil {
		return "", types.AuditRecord{}, err
	}

	available, err = r.RepoIndex.AvailableVersions(updated.Type, updated.Name)
	if err != nil {
		return "", types.AuditRecord{}, err
	}
	version, err = bestCompatibleVersion(updated, available)
	if err != nil {
		return "", types.AuditRecord{}, err
	}
	log.Ctx(ctx).Debug().Str("requirement", req.Name).Msg("override directive applied")
	return version, record, nil
}

// MergeRequirements collapses entries for the same package and
// environment into one requirement carrying all constraints. When
// sources of different priority declare the same package, only the
// highest-priority constraints survive (override > profile > base).
func MergeRequirements(reqs []types.Requirement) []types.Requirement {
	type key struct {
		depType types.DependencyType
		name    string
		marker  string
	}
	merged := map[key]types.Requirement{}
	var order []key
	for _, req := range reqs {
		k := key{depType: req.Type, name: req.Name, marker: req.Marker}
		existing, ok := merged[k]
		if !ok {
			merged[k] = req
			order = append(order, k)
			continue
		}
		existingPriority := sourcePriority(existing.Source)
		incomingPriority := sourcePriority(req.Source)
		switch {
		case incomingPriority > existingPriority:
			merged[k] = req
		case incomingPriority == existingPriority:
			existing.Constraints = append(existing.Constraints, req.Constraints...)
			merged[k] = existing
		}
	}
	out := make([]types.Requirement, 0, len(merged))
	for _, k := range order {
		out = append(out, merged[k])
	}
	return out
}

func mapDirectives(directives []types.OverrideDirective, now time.Time) map[string]types.OverrideDirective {
	mapped := map[string]types.OverrideDirective{}
	for _, directive := range directives {
		if directive.Dependency == "" {
			continue
		}
		if expiry := shared.ParseTimeFlexible(directive.ExpiresAt); !expiry.IsZero() && expiry.Before(now) {
			continue
		}
		mapped[normalizeDirectiveKey(directive.Dependency)] = directive
	}
	return mapped
}

func directiveFor(req types.Requirement, directives map[string]types.OverrideDirective) (types.OverrideDirective, bool) {
	key := fmt.Sprintf("%s:%s", req.Type, req.Name)
	directive, ok := directives[key]
	return directive, ok
}

func normalizeDirectiveKey(value string) string {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return value
	}
	depType := strings.ToLower(strings.TrimSpace(parts[0]))
	name := strings.TrimSpace(parts[1])
	if depType == "pip" {
		name = shared.NormalizePipName(name)
	} else {
		name = shared.NormalizeDebName(name)
	}
	return fmt.Sprintf("%s:%s", depType, name)
}

func sourcePriority(source string) int {
	normalized := strings.ToLower(strings.TrimSpace(source))
	switch {
	case strings.HasPrefix(normalized, "override:"):
		return 3
	case strings.HasPrefix(normalized, "profile:"):
		return 2
	case strings.HasPrefix(normalized, "constraints:"):
		return 1
	default:
		return 0
	}
}
