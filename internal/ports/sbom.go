package ports

import "pindown/internal/types"

type SBOMPort interface {
	WriteSBOM(path string, project string, lockID string, createdAt string, entries []types.LockEntry) error
}
