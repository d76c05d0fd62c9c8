package types

type LockEntry struct {
	Type    DependencyType
	Package string
	Version string
}

type SkippedRequirement struct {
	Package string
	Marker  string
}

// LockIntent records the provenance of a lock run so downstream tooling
// can tie installed environments back to the inputs that produced them.
type LockIntent struct {
	Project      string
	TargetPython string
	LockID       string
	CreatedAt    string
}

type AuditRecord struct {
	Dependency string
	Action     string
	Value      string
	Reason     string
	Owner      string
	ExpiresAt  string
}

type AuditReport struct {
	Records []AuditRecord
}
