package ports

import "pindown/internal/types"

type PolicyPort interface {
	ResolvePinGroup(depType types.DependencyType, name string) (types.PinGroup, error)
}
