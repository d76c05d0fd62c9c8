package app

import (
	"fmt"
	"os"
	"strings"

	"pindown/internal/types"
)

// defaultsHint pairs a flag name with a spec defaults key for hint messages.
type defaultsHint struct {
	FlagName    string
	DefaultsKey string
}

// checkLockDefaultsHints returns hints for lock flags that could be
// replaced by spec defaults. A hint is generated when the user
// explicitly provided a value that matches a non-empty default.
func checkLockDefaultsHints(req LockRequest, defaults types.SpecDefaults) []string {
	checks := []struct {
		hint       defaultsHint
		provided   bool
		hasDefault bool
	}{
		{
			hint:       defaultsHint{"--requirements", "defaults.requirements"},
			provided:   strings.TrimSpace(req.Requirements) != "",
			hasDefault: defaults.Requirements != "",
		},
		{
			hint:       defaultsHint{"--packages", "defaults.packages"},
			provided:   strings.TrimSpace(req.Packages) != "",
			hasDefault: defaults.Packages != "",
		},
		{
			hint:       defaultsHint{"--repo-index", "defaults.repo_index"},
			provided:   strings.TrimSpace(req.RepoIndex) != "",
			hasDefault: defaults.RepoIndex != "",
		},
		{
			hint:       defaultsHint{"--output", "defaults.output"},
			provided:   strings.TrimSpace(req.OutputDir) != "",
			hasDefault: defaults.Output != "",
		},
		{
			hint:       defaultsHint{"--target-python", "defaults.target_python"},
			provided:   strings.TrimSpace(req.TargetPython) != "",
			hasDefault: defaults.TargetPython != "",
		},
		{
			hint:       defaultsHint{"--platform", "defaults.platform"},
			provided:   strings.TrimSpace(req.Platform) != "",
			hasDefault: defaults.Platform != "",
		},
	}

	var hints []string
	for _, c := range checks {
		if c.provided && c.hasDefault {
			hints = append(hints, fmt.Sprintf(
				"hint: %s is also set in project spec (%s); you can omit the flag",
				c.hint.FlagName, c.hint.DefaultsKey,
			))
		}
	}
	return hints
}

// emitHints writes hint messages to stderr.
func emitHints(hints []string) {
	for _, h := range hints {
		fmt.Fprintln(os.Stderr, h)
	}
}
