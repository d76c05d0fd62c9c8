package core

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"pindown/internal/types"
)

// Formatter renders a parsed manifest back to canonical requirements
// text: standalone comments first in file order, then includes, then
// entries sorted by normalized name with exact duplicates collapsed.
// Entries pulled in through -r/-c stay behind their include line and are
// never inlined.
type Formatter struct{}

func NewFormatter() Formatter {
	return Formatter{}
}

func (f Formatter) Format(manifest types.Manifest) string {
	var lines []string
	for _, comment := range manifest.Comments {
		lines = append(lines, comment.Text)
	}
	for _, include := range manifest.Includes {
		if include.Constraint {
			lines = append(lines, "-c "+include.Path)
		} else {
			lines = append(lines, "-r "+include.Path)
		}
	}

	ordered := ownRequirements(manifest)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].Marker < ordered[j].Marker
	})

	seen := map[string]struct{}{}
	for _, req := range ordered {
		rendered := RenderRequirement(req)
		if _, ok := seen[rendered]; ok {
			continue
		}
		seen[rendered] = struct{}{}
		lines = append(lines, rendered)
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// ownRequirements drops entries whose source points at an included file,
// keeping only what the manifest's own file declares. A manifest without
// a path is taken as already file-scoped.
func ownRequirements(manifest types.Manifest) []types.Requirement {
	if manifest.Path == "" {
		return append([]types.Requirement(nil), manifest.Requirements...)
	}
	base := filepath.Base(manifest.Path)
	own := make([]types.Requirement, 0, len(manifest.Requirements))
	for _, req := range manifest.Requirements {
		if sourceFile(req.Source) == base {
			own = append(own, req)
		}
	}
	return own
}

// sourceFile strips the trailing ":line" from a requirement source,
// leaving the file reference including any profile/constraints prefix.
func sourceFile(source string) string {
	idx := strings.LastIndex(source, ":")
	if idx < 0 || idx == len(source)-1 {
		return source
	}
	for _, r := range source[idx+1:] {
		if r < '0' || r > '9' {
			return source
		}
	}
	return source[:idx]
}

// RenderRequirement writes one entry in pip's canonical spelling:
// normalized name, extras in brackets, comma-joined constraints with no
// surrounding spaces, and the marker after " ; ".
func RenderRequirement(req types.Requirement) string {
	var b strings.Builder
	b.WriteString(req.Name)
	if len(req.Extras) > 0 {
		extras := append([]string(nil), req.Extras...)
		sort.Strings(extras)
		b.WriteString("[")
		b.WriteString(strings.Join(extras, ","))
		b.WriteString("]")
	}
	clauses := make([]string, 0, len(req.Constraints))
	for _, constraint := range req.Constraints {
		if constraint.Op == types.ConstraintOpNone {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s%s", constraint.Op, constraint.Version))
	}
	b.WriteString(strings.Join(clauses, ","))
	if req.Marker != "" {
		b.WriteString(" ; ")
		b.WriteString(req.Marker)
	}
	return b.String()
}
