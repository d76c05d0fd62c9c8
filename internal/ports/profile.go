package ports

import "pindown/internal/types"

// ProfileSourcePort loads the extra requirement sets a project spec
// names, restricted to the profiles the caller selected.
type ProfileSourcePort interface {
	LoadProfiles(spec types.ProjectSpec, selected []string) ([]types.Manifest, error)
}
