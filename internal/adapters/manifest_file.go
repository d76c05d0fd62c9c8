package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/core"
	"pindown/internal/ports"
	"pindown/internal/types"
)

// ManifestFileAdapter reads pip requirements files and apt package
// sidecars from disk. Requirements files support comments, blank lines,
// backslash continuations, inline comments, and recursive -r/-c
// includes resolved relative to the including file.
type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

func (a ManifestFileAdapter) LoadRequirements(path string) (types.Manifest, error) {
	visited := map[string]struct{}{}
	return a.loadRequirements(path, "", visited)
}

func (a ManifestFileAdapter) loadRequirements(path string, sourcePrefix string, visited map[string]struct{}) (types.Manifest, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}
	if _, ok := visited[resolved]; ok {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("requirements include cycle at %s", path))
	}
	visited[resolved] = struct{}{}

	lines, err := readLogicalLines(path)
	if err != nil {
		return types.Manifest{}, err
	}

	manifest := types.Manifest{Path: path}
	for _, line := range lines {
		text, comment := splitInlineComment(line.text)
		if text == "" {
			if comment != "" {
				manifest.Comments = append(manifest.Comments, types.CommentLine{Text: comment, Line: line.number})
			}
			continue
		}
		if includePath, constraint, ok := parseIncludeLine(text); ok {
			resolvedInclude := includePath
			if !filepath.IsAbs(includePath) {
				resolvedInclude = filepath.Join(filepath.Dir(path), includePath)
			}
			manifest.Includes = append(manifest.Includes, types.IncludeRef{
				Path:       includePath,
				Constraint: constraint,
				Line:       line.number,
			})
			prefix := sourcePrefix
			if constraint && prefix == "" {
				prefix = "constraints:"
			}
			included, err := a.loadRequirements(resolvedInclude, prefix, visited)
			if err != nil {
				return types.Manifest{}, err
			}
			manifest.Requirements = append(manifest.Requirements, included.Requirements...)
			continue
		}
		source := fmt.Sprintf("%s%s:%d", sourcePrefix, filepath.Base(path), line.number)
		req, err := core.ParseRequirement(text, types.DependencyTypePip, source)
		if err != nil {
			return types.Manifest{}, err
		}
		manifest.Requirements = append(manifest.Requirements, req)
	}
	return manifest, nil
}

// LoadSystemPackages reads an apt sidecar file: one package per line,
// optionally pinned as name=version, with the same comment handling as
// requirements files.
func (a ManifestFileAdapter) LoadSystemPackages(path string) ([]types.Requirement, error) {
	lines, err := readLogicalLines(path)
	if err != nil {
		return nil, err
	}
	var reqs []types.Requirement
	for _, line := range lines {
		text, _ := splitInlineComment(line.text)
		if text == "" {
			continue
		}
		source := fmt.Sprintf("%s:%d", filepath.Base(path), line.number)
		req, err := core.ParseRequirement(text, types.DependencyTypeApt, source)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

type logicalLine struct {
	text   string
	number int
}

// readLogicalLines splits a file into logical lines, joining backslash
// continuations. A joined line keeps the number of its first physical
// line.
func readLogicalLines(path string) ([]logicalLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("manifest file not found: %s", path)).
			WithCause(err)
	}
	physical := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	var lines []logicalLine
	pending := ""
	pendingStart := 0
	for i, raw := range physical {
		number := i + 1
		if trimmed := strings.TrimRight(raw, " \t"); strings.HasSuffix(trimmed, "\\") {
			if pending == "" {
				pendingStart = number
			}
			pending += strings.TrimSuffix(trimmed, "\\")
			continue
		}
		if pending != "" {
			lines = append(lines, logicalLine{text: pending + raw, number: pendingStart})
			pending = ""
			continue
		}
		lines = append(lines, logicalLine{text: raw, number: number})
	}
	if pending != "" {
		lines = append(lines, logicalLine{text: pending, number: pendingStart})
	}
	return lines, nil
}

// splitInlineComment separates requirement text from a trailing comment.
// Pip only treats # as a comment at line start or after whitespace.
func splitInlineComment(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", ""
	}
	if strings.HasPrefix(trimmed, "#") {
		return "", trimmed
	}
	for i := 1; i < len(trimmed); i++ {
		if trimmed[i] == '#' && (trimmed[i-1] == ' ' || trimmed[i-1] == '\t') {
			return strings.TrimSpace(trimmed[:i]), ""
		}
	}
	return trimmed, ""
}

func parseIncludeLine(text string) (string, bool, bool) {
	for _, prefix := range []string{"-r ", "--requirement "} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix)), false, true
		}
	}
	for _, prefix := range []string{"-c ", "--constraint "} {
		if strings.HasPrefix(text, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(text, prefix)), true, true
		}
	}
	return "", false, false
}

var _ ports.ManifestPort = ManifestFileAdapter{}
