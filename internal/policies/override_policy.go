package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/types"
)

const (
	ActionForce   = "force"
	ActionRelax   = "relax"
	ActionReplace = "replace"
	ActionBlock   = "block"
)

// ApplyOverride rewrites a requirement according to an override
// directive and returns the audit record to report alongside it.
func ApplyOverride(req types.Requirement, directive types.OverrideDirective) (types.Requirement, types.AuditRecord, error) {
	record := types.AuditRecord(directive)

	switch strings.ToLower(directive.Action) {
	case ActionForce:
		if directive.Value == "" {
			return types.Requirement{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("force directive requires value")
		}
		req.Constraints = []types.Constraint{{
			Op:      types.ConstraintOpEq2,
			Version: directive.Value,
		}}
		req.Source = "override:force"
		return req, record, nil
	case ActionRelax:
		req.Constraints = []types.Constraint{}
		req.Source = "override:relax"
		return req, record, nil
	case ActionReplace:
		if directive.Value == "" {
			return types.Requirement{}, record, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("replace directive requires value")
		}
		req.Name = directive.Value
		req.RawName = directive.Value
		req.Constraints = []types.Constraint{}
		req.Source = "override:replace"
		return req, record, nil
	case ActionBlock:
		return types.Requirement{}, record, errbuilder.New().
			WithCode(errbuilder.CodePermissionDenied).
			WithMsg(fmt.Sprintf("dependency blocked by directive: %s", req.Name))
	default:
		return types.Requirement{}, record, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown override action: %s", directive.Action))
	}
}
