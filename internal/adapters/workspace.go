package adapters

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/ports"
)

// WorkspaceAdapter discovers manifest files under a project root:
// requirements.txt, the packages.txt apt sidecar, requirements-*.txt
// profile files, and an optional pindown.yaml project spec. Files
// closest to the root win when the tree holds several candidates.
type WorkspaceAdapter struct{}

func NewWorkspaceAdapter() WorkspaceAdapter {
	return WorkspaceAdapter{}
}

func (a WorkspaceAdapter) FindManifests(root string) (ports.ManifestSet, error) {
	if root == "" {
		return ports.ManifestSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace root is empty")
	}
	set := ports.ManifestSet{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if shouldSkipWorkspaceDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		base := filepath.Base(path)
		switch {
		case base == "requirements.txt":
			if set.Requirements == "" || depth(root, path) < depth(root, set.Requirements) {
				set.Requirements = path
			}
		case base == "packages.txt":
			if set.Packages == "" || depth(root, path) < depth(root, set.Packages) {
				set.Packages = path
			}
		case base == "pindown.yaml":
			if set.ProjectSpec == "" || depth(root, path) < depth(root, set.ProjectSpec) {
				set.ProjectSpec = path
			}
		case strings.HasPrefix(base, "requirements-") && strings.HasSuffix(base, ".txt"):
			set.ProfileFiles = append(set.ProfileFiles, path)
		}
		return nil
	})
	if err != nil {
		return ports.ManifestSet{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan workspace").
			WithCause(err)
	}
	sort.Strings(set.ProfileFiles)
	if set.Requirements == "" {
		return ports.ManifestSet{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no requirements.txt found under " + root)
	}
	return set, nil
}

func shouldSkipWorkspaceDir(name string) bool {
	switch name {
	case ".git", ".venv", "venv", "node_modules", "__pycache__", ".tox", ".mypy_cache":
		return true
	default:
		return false
	}
}

func depth(root string, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return len(strings.Split(path, string(filepath.Separator)))
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

var _ ports.WorkspacePort = WorkspaceAdapter{}
