package ports

import "pindown/internal/types"

type OutputPort interface {
	WriteRequirementsLock(entries []types.LockEntry) error
	WritePackagesLock(entries []types.LockEntry) error
	WriteLockIntent(intent types.LockIntent) error
	WriteAuditReport(report types.AuditReport) error
}
