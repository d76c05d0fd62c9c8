package ports

import "pindown/internal/types"

type ProjectSpecPort interface {
	LoadProject(path string) (types.ProjectSpec, error)
}
