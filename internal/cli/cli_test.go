package cli

import (
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCodeForError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "invalid argument",
			err:  errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("requirements file is required"),
			want: 2,
		},
		{
			name: "already exists",
			err:  errbuilder.New().WithCode(errbuilder.CodeAlreadyExists).WithMsg("duplicate profile name"),
			want: 2,
		},
		{
			name: "conflict without directive",
			err:  errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("conflict without override directive: pip:protobuf"),
			want: 3,
		},
		{
			name: "blocked dependency",
			err:  errbuilder.New().WithCode(errbuilder.CodePermissionDenied).WithMsg("dependency blocked by directive: pip:torch"),
			want: 3,
		},
		{
			name: "failed precondition",
			err:  errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("no compatible version for pip:moviepy"),
			want: 4,
		},
		{
			name: "no available versions",
			err:  errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no available versions for pip:unknown"),
			want: 4,
		},
		{
			name: "not found",
			err:  errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("repo index file not found"),
			want: 5,
		},
		{
			name: "internal",
			err:  errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("failed to write requirements file"),
			want: 5,
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boom"),
			want: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, exitCodeForError(tc.err))
		})
	}
}

func TestErrorMessageUnwrapsBuilder(t *testing.T) {
	err := errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("no available versions for pip:unknown")
	assert.Equal(t, "no available versions for pip:unknown", errorMessage(err))
	assert.Equal(t, "boom", errorMessage(fmt.Errorf("boom")))
}

func TestResolveHelpersWithNilCommand(t *testing.T) {
	assert.Equal(t, "flag-value", resolveString(nil, "flag-value", "missing_key", "flag"))
	assert.Equal(t, []string{"dev"}, resolveStrings(nil, []string{"dev"}, "missing_key", "flag"))
	assert.True(t, resolveBool(nil, true, "missing_key", "flag"))
	assert.False(t, flagChanged(nil, "flag"))
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	expected := []string{"validate", "fmt", "resolve", "lock", "inspect", "index", "sbom"}
	registered := map[string]bool{}
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range expected {
		require.True(t, registered[name], "missing subcommand %s", name)
	}
}
