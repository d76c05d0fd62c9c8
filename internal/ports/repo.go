package ports

import "pindown/internal/types"

type RepoIndexPort interface {
	AvailableVersions(depType types.DependencyType, name string) ([]string, error)
}
