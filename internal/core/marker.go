package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/types"
)

// MarkerEnv carries the target environment used to evaluate requirement
// markers. Zero-value fields make their variables match anything, so a
// caller that only cares about python_version can leave Platform empty.
type MarkerEnv struct {
	PythonVersion string
	Platform      string
}

// EvaluateMarker reports whether a requirement's environment marker holds
// for the given target environment. Markers are conjunctions and
// disjunctions of "variable op value" clauses; "or" binds looser than
// "and", matching PEP 508 precedence. Clauses over variables the
// environment does not model evaluate to true, so unknown markers never
// silently drop a requirement.
func EvaluateMarker(marker string, env MarkerEnv) (bool, error) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return true, nil
	}
	for _, disjunct := range strings.Split(marker, " or ") {
		holds := true
		for _, clause := range strings.Split(disjunct, " and ") {
			ok, err := evaluateClause(clause, env)
			if err != nil {
				return false, err
			}
			if !ok {
				holds = false
				break
			}
		}
		if holds {
			return true, nil
		}
	}
	return false, nil
}

func evaluateClause(clause string, env MarkerEnv) (bool, error) {
	clause = strings.TrimSpace(clause)
	clause = strings.TrimPrefix(clause, "(")
	clause = strings.TrimSuffix(clause, ")")
	clause = strings.TrimSpace(clause)

	variable, op, value, err := splitClause(clause)
	if err != nil {
		return false, err
	}
	switch variable {
	case "python_version", "python_full_version":
		if env.PythonVersion == "" {
			return true, nil
		}
		return comparePythonVersion(env.PythonVersion, op, value)
	case "sys_platform", "platform_system", "os_name":
		if env.Platform == "" {
			return true, nil
		}
		return compareString(env.Platform, op, value, clause)
	default:
		// Variables outside the modeled environment are treated as
		// satisfied rather than failing the whole manifest.
		return true, nil
	}
}

func splitClause(clause string) (string, types.ConstraintOp, string, error) {
	for _, op := range opTokens {
		idx := strings.Index(clause, string(op))
		if idx <= 0 {
			continue
		}
		if op == types.ConstraintOpEq {
			// A bare "=" is not a marker operator; it only shows up as
			// part of "==", which the ordered token scan finds first.
			continue
		}
		variable := strings.TrimSpace(clause[:idx])
		value := strings.TrimSpace(clause[idx+len(op):])
		value = strings.Trim(value, `"'`)
		if variable == "" || value == "" {
			break
		}
		return variable, op, value, nil
	}
	return "", types.ConstraintOpNone, "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid environment marker clause: %s", clause))
}

func comparePythonVersion(target string, op types.ConstraintOp, value string) (bool, error) {
	cache := newVersionCache(types.DependencyTypePip)
	spec, err := cache.pepSpec(toPep440Spec(types.Constraint{Op: op, Version: value}))
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid python version in marker: %s", value)).
			WithCause(err)
	}
	parsed, err := cache.pepVersion(target)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid target python version: %s", target)).
			WithCause(err)
	}
	return spec.Check(parsed), nil
}

func compareString(target string, op types.ConstraintOp, value string, clause string) (bool, error) {
	switch op {
	case types.ConstraintOpEq2:
		return strings.EqualFold(target, value), nil
	case types.ConstraintOpNe:
		return !strings.EqualFold(target, value), nil
	default:
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported marker operator in clause: %s", clause))
	}
}
