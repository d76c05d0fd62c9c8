package types

type Metadata struct {
	Name        string   `yaml:"name"`
	Version     string   `yaml:"version"`
	Owners      []string `yaml:"owners"`
	Description string   `yaml:"description,omitempty"`
}

// SpecDefaults provides project-level defaults that the CLI and
// application layer use when a value is not explicitly provided via
// flags or environment variables.
type SpecDefaults struct {
	Requirements string `yaml:"requirements,omitempty"`
	Packages     string `yaml:"packages,omitempty"`
	TargetPython string `yaml:"target_python,omitempty"`
	Platform     string `yaml:"platform,omitempty"`
	RepoIndex    string `yaml:"repo_index,omitempty"`
	Output       string `yaml:"output,omitempty"`
}

// ProfileRef names an extra requirements file layered on top of the base
// manifest (dev, test, docs and similar optional sets).
type ProfileRef struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

type PinGroup struct {
	Name    string   `yaml:"name"`
	Mode    PinMode  `yaml:"mode"`
	Matches []string `yaml:"matches"`
}

type PinPolicySpec struct {
	Groups []PinGroup `yaml:"groups"`
}

type OverrideDirective struct {
	Dependency string `yaml:"dependency"`
	Action     string `yaml:"action"`
	Value      string `yaml:"value,omitempty"`
	Reason     string `yaml:"reason"`
	Owner      string `yaml:"owner"`
	ExpiresAt  string `yaml:"expires_at,omitempty"`
}

type ProjectSpec struct {
	APIVersion string              `yaml:"api_version"`
	Kind       SpecKind            `yaml:"kind"`
	Metadata   Metadata            `yaml:"metadata"`
	Defaults   SpecDefaults        `yaml:"defaults,omitempty"`
	Profiles   []ProfileRef        `yaml:"profiles,omitempty"`
	Policy     PinPolicySpec       `yaml:"policy,omitempty"`
	Overrides  []OverrideDirective `yaml:"overrides,omitempty"`
}
