package app

import (
	"context"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/core"
)

// Fmt renders a requirements file in canonical form: normalized names,
// sorted entries, one requirement per line. With Write set the file is
// rewritten in place.
func (s Service) Fmt(ctx context.Context, req FmtRequest) (FmtResult, error) {
	path := strings.TrimSpace(req.Requirements)
	if path == "" {
		return FmtResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("requirements file is required")
	}
	manifest, err := s.Manifests.LoadRequirements(path)
	if err != nil {
		return FmtResult{}, err
	}
	original, err := os.ReadFile(path)
	if err != nil {
		return FmtResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read requirements file").
			WithCause(err)
	}

	formatter := core.NewFormatter()
	formatted := formatter.Format(manifest)
	changed := formatted != string(original)

	if req.Write && changed {
		if err := os.WriteFile(path, []byte(formatted), 0644); err != nil {
			return FmtResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to write requirements file").
				WithCause(err)
		}
	}
	return FmtResult{
		Formatted: formatted,
		Changed:   changed,
	}, nil
}
