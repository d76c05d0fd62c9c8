package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/shared"
	"pindown/internal/types"
)

// opTokens is the ordered list of constraint operators tried during
// parsing. Longer tokens must precede shorter ones to avoid false matches
// (e.g. ">=" before ">").
var opTokens = []types.ConstraintOp{
	types.ConstraintOpGte,
	types.ConstraintOpLte,
	types.ConstraintOpCompat,
	types.ConstraintOpNe,
	types.ConstraintOpEq2,
	types.ConstraintOpEq,
	types.ConstraintOpGt,
	types.ConstraintOpLt,
}

// ParseRequirement parses a single logical requirement line into a
// Requirement. The caller strips comments, blank lines, includes, and
// joins continuations beforehand; raw is expected to hold one entry of
// the form "name[extras] op version, op version ; marker".
func ParseRequirement(raw string, depType types.DependencyType, source string) (types.Requirement, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return types.Requirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("empty requirement (%s)", source))
	}

	spec := raw
	marker := ""
	if idx := strings.Index(raw, ";"); idx >= 0 {
		spec = strings.TrimSpace(raw[:idx])
		marker = strings.TrimSpace(raw[idx+1:])
		if marker == "" {
			return types.Requirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("empty environment marker: %s (%s)", raw, source))
		}
	}

	nameEnd := strings.IndexAny(spec, "[<>=!~ \t")
	if nameEnd == 0 {
		return types.Requirement{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("requirement has no package name: %s (%s)", raw, source))
	}
	if nameEnd < 0 {
		nameEnd = len(spec)
	}
	name := spec[:nameEnd]
	rest := strings.TrimSpace(spec[nameEnd:])

	var extras []string
	if strings.HasPrefix(rest, "[") {
		closing := strings.Index(rest, "]")
		if closing < 0 {
			return types.Requirement{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unterminated extras bracket: %s (%s)", raw, source))
		}
		for _, extra := range strings.Split(rest[1:closing], ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				return types.Requirement{}, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("empty extra name: %s (%s)", raw, source))
			}
			extras = append(extras, shared.NormalizePipName(extra))
		}
		rest = strings.TrimSpace(rest[closing+1:])
	}

	constraints, err := parseConstraintList(rest, raw, source)
	if err != nil {
		return types.Requirement{}, err
	}

	normalized := shared.NormalizePipName(name)
	if depType == types.DependencyTypeApt {
		normalized = shared.NormalizeDebName(name)
	}
	return types.Requirement{
		Name:        normalized,
		RawName:     name,
		Type:        depType,
		Extras:      extras,
		Constraints: constraints,
		Marker:      marker,
		Source:      source,
	}, nil
}

// parseConstraintList splits "op version, op version" clauses. An empty
// rest yields a bare requirement with no constraints.
func parseConstraintList(rest string, raw string, source string) ([]types.Constraint, error) {
	if rest == "" {
		return nil, nil
	}
	var constraints []types.Constraint
	for _, clause := range strings.Split(rest, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("empty constraint clause: %s (%s)", raw, source))
		}
		constraint, err := parseClause(clause, raw, source)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, constraint)
	}
	return constraints, nil
}

func parseClause(clause string, raw string, source string) (types.Constraint, error) {
	for _, op := range opTokens {
		if !strings.HasPrefix(clause, string(op)) {
			continue
		}
		version := strings.TrimSpace(clause[len(op):])
		if version == "" {
			return types.Constraint{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("constraint missing version: %s (%s)", raw, source))
		}
		return types.Constraint{Op: op, Version: version}, nil
	}
	return types.Constraint{}, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("invalid constraint clause %q: %s (%s)", clause, raw, source))
}
