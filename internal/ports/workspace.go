package ports

// WorkspacePort discovers manifest files under a project root.
type WorkspacePort interface {
	FindManifests(root string) (ManifestSet, error)
}

// ManifestSet is the result of manifest discovery: the base requirements
// file, the optional apt sidecar, and any extra requirements-*.txt
// profile files found next to them.
type ManifestSet struct {
	Requirements string
	Packages     string
	ProfileFiles []string
	ProjectSpec  string
}
