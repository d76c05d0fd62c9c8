package types

type Constraint struct {
	Op      ConstraintOp
	Version string
}

// Requirement is one parsed manifest entry. Name holds the PEP 503
// normalized form; RawName preserves the spelling from the file so
// formatting and error messages can echo the author's input.
type Requirement struct {
	Name        string
	RawName     string
	Type        DependencyType
	Extras      []string
	Constraints []Constraint
	Marker      string
	Source      string
}
