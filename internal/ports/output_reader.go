package ports

import "pindown/internal/types"

type OutputReaderPort interface {
	ReadRequirementsLock(path string) ([]types.LockEntry, error)
	ReadPackagesLock(path string) ([]types.LockEntry, error)
	ReadLockIntent(path string) (types.LockIntent, error)
	ReadAuditReport(path string) (types.AuditReport, error)
}
