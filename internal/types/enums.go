package types

type DependencyType string

const (
	DependencyTypePip DependencyType = "pip"
	DependencyTypeApt DependencyType = "apt"
)

type PinMode string

const (
	PinModeExact   PinMode = "exact"
	PinModeBounded PinMode = "bounded"
	PinModeOpen    PinMode = "open"
)

type SpecKind string

const (
	SpecKindProject SpecKind = "project"
)

type ConstraintOp string

const (
	ConstraintOpNone   ConstraintOp = ""
	ConstraintOpEq     ConstraintOp = "="
	ConstraintOpEq2    ConstraintOp = "=="
	ConstraintOpNe     ConstraintOp = "!="
	ConstraintOpCompat ConstraintOp = "~="
	ConstraintOpGte    ConstraintOp = ">="
	ConstraintOpLte    ConstraintOp = "<="
	ConstraintOpGt     ConstraintOp = ">"
	ConstraintOpLt     ConstraintOp = "<"
)
