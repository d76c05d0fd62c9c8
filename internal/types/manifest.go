package types

// CommentLine preserves a standalone comment (or the header block) from a
// requirements file so the formatter can write it back in place.
type CommentLine struct {
	Text string
	Line int
}

// Manifest is the parsed form of a requirements file. Includes lists
// files pulled in via -r/-c lines, in encounter order.
type Manifest struct {
	Path         string
	Requirements []Requirement
	Comments     []CommentLine
	Includes     []IncludeRef
}

type IncludeRef struct {
	Path       string
	Constraint bool
	Line       int
}
