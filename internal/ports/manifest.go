package ports

import "pindown/internal/types"

type ManifestPort interface {
	LoadRequirements(path string) (types.Manifest, error)
	LoadSystemPackages(path string) ([]types.Requirement, error)
}
