package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pindown/internal/ports"
	"pindown/internal/types"
)

// Issue is a single validation finding tied back to the manifest line
// that produced it.
type Issue struct {
	Source  string
	Message string
}

// ManifestChecker verifies the well-formedness of parsed requirements:
// every version string parses under its type's scheme, no package is
// declared twice at the same source level for the same environment, no
// per-package constraint set is contradictory, and (when a policy is
// configured) every entry meets its pin group's discipline.
type ManifestChecker struct {
	Policy ports.PolicyPort
}

func NewManifestChecker() ManifestChecker {
	return ManifestChecker{}
}

func (c ManifestChecker) WithPolicy(policy ports.PolicyPort) ManifestChecker {
	c.Policy = policy
	return c
}

func (c ManifestChecker) Check(ctx context.Context, reqs []types.Requirement) []Issue {
	var issues []Issue
	issues = append(issues, checkVersionSyntax(reqs)...)
	issues = append(issues, checkDuplicates(reqs)...)
	issues = append(issues, checkContradictions(reqs)...)
	if c.Policy != nil {
		issues = append(issues, c.checkPolicy(reqs)...)
	}
	log.Ctx(ctx).Debug().
		Int("requirements", len(reqs)).
		Int("issues", len(issues)).
		Msg("manifest checked")
	return issues
}

func checkVersionSyntax(reqs []types.Requirement) []Issue {
	var issues []Issue
	pipCache := newVersionCache(types.DependencyTypePip)
	debCache := newVersionCache(types.DependencyTypeApt)
	for _, req := range reqs {
		for _, constraint := range req.Constraints {
			if constraint.Op == types.ConstraintOpNone {
				continue
			}
			var err error
			switch req.Type {
			case types.DependencyTypeApt:
				_, err = debCache.debVersion(constraint.Version)
			default:
				_, err = pipCache.pepSpec(toPep440Spec(constraint))
			}
			if err != nil {
				issues = append(issues, Issue{
					Source:  req.Source,
					Message: fmt.Sprintf("%s: invalid version %q for %s", req.Name, constraint.Version, req.Type),
				})
			}
		}
	}
	return issues
}

// checkDuplicates flags a package declared twice at the same source
// priority. An entry re-declared by a higher-priority source (profile
// over base, override over both) is not a duplicate: the merge step
// resolves it in the higher source's favor.
func checkDuplicates(reqs []types.Requirement) []Issue {
	type key struct {
		depType  types.DependencyType
		name     string
		marker   string
		priority int
	}
	seen := map[key]string{}
	var issues []Issue
	for _, req := range reqs {
		k := key{depType: req.Type, name: req.Name, marker: req.Marker, priority: sourcePriority(req.Source)}
		if first, ok := seen[k]; ok {
			issues = append(issues, Issue{
				Source:  req.Source,
				Message: fmt.Sprintf("%s: duplicate entry (first declared at %s)", req.Name, first),
			})
			continue
		}
		seen[k] = req.Source
	}
	return issues
}

// checkContradictions rejects constraint sets that no version can ever
// satisfy: conflicting exact pins, an exact pin excluded by !=, and
// disjoint lower/upper bounds.
func checkContradictions(reqs []types.Requirement) []Issue {
	var issues []Issue
	for _, req := range reqs {
		cache := newVersionCache(req.Type)
		if message := contradictionFor(req, cache); message != "" {
			issues = append(issues, Issue{Source: req.Source, Message: message})
		}
	}
	return issues
}

func contradictionFor(req types.Requirement, cache *versionCache) string {
	hard := make([]types.Constraint, 0, len(req.Constraints))
	for _, constraint := range req.Constraints {
		if constraint.Op != types.ConstraintOpNone {
			hard = append(hard, constraint)
		}
	}
	for i := 0; i < len(hard); i++ {
		for j := i + 1; j < len(hard); j++ {
			if message := clausePairConflict(req.Name, hard[i], hard[j], cache); message != "" {
				return message
			}
		}
	}
	return ""
}

func clausePairConflict(name string, a types.Constraint, b types.Constraint, cache *versionCache) string {
	cmp := cache.compare(a.Version, b.Version)
	aExact := a.Op == types.ConstraintOpEq || a.Op == types.ConstraintOpEq2
	bExact := b.Op == types.ConstraintOpEq || b.Op == types.ConstraintOpEq2
	switch {
	case aExact && bExact && cmp != 0:
		return fmt.Sprintf("%s: conflicting exact pins %s and %s", name, a.Version, b.Version)
	case aExact && b.Op == types.ConstraintOpNe && cmp == 0,
		bExact && a.Op == types.ConstraintOpNe && cmp == 0:
		return fmt.Sprintf("%s: version %s is both required and excluded", name, a.Version)
	case isLowerBound(a.Op) && isUpperBound(b.Op) && boundsDisjoint(a, b, cmp):
		return fmt.Sprintf("%s: empty version range between %s%s and %s%s", name, a.Op, a.Version, b.Op, b.Version)
	case isLowerBound(b.Op) && isUpperBound(a.Op) && boundsDisjoint(b, a, -cmp):
		return fmt.Sprintf("%s: empty version range between %s%s and %s%s", name, b.Op, b.Version, a.Op, a.Version)
	}
	return ""
}

func isLowerBound(op types.ConstraintOp) bool {
	return op == types.ConstraintOpGt || op == types.ConstraintOpGte
}

func isUpperBound(op types.ConstraintOp) bool {
	return op == types.ConstraintOpLt || op == types.ConstraintOpLte
}

// boundsDisjoint reports whether lower and upper leave no version in
// between; cmp compares lower.Version against upper.Version.
func boundsDisjoint(lower types.Constraint, upper types.Constraint, cmp int) bool {
	if cmp > 0 {
		return true
	}
	if cmp != 0 {
		return false
	}
	return lower.Op == types.ConstraintOpGt || upper.Op == types.ConstraintOpLt
}

func (c ManifestChecker) checkPolicy(reqs []types.Requirement) []Issue {
	var issues []Issue
	for _, req := range reqs {
		group, err := c.Policy.ResolvePinGroup(req.Type, req.Name)
		if err != nil {
			issues = append(issues, Issue{
				Source:  req.Source,
				Message: fmt.Sprintf("%s: no pin group matches", req.Name),
			})
			continue
		}
		if message := pinModeViolation(req, group); message != "" {
			issues = append(issues, Issue{Source: req.Source, Message: message})
		}
	}
	return issues
}

func pinModeViolation(req types.Requirement, group types.PinGroup) string {
	switch group.Mode {
	case types.PinModeExact:
		for _, constraint := range req.Constraints {
			if constraint.Op == types.ConstraintOpEq || constraint.Op == types.ConstraintOpEq2 {
				return ""
			}
		}
		return fmt.Sprintf("%s: pin group %s requires an exact pin", req.Name, group.Name)
	case types.PinModeBounded:
		for _, constraint := range req.Constraints {
			if isUpperBound(constraint.Op) ||
				constraint.Op == types.ConstraintOpCompat ||
				constraint.Op == types.ConstraintOpEq ||
				constraint.Op == types.ConstraintOpEq2 {
				return ""
			}
		}
		return fmt.Sprintf("%s: pin group %s requires an upper bound", req.Name, group.Name)
	default:
		return ""
	}
}
