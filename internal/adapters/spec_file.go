package adapters

import (
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"pindown/internal/ports"
	"pindown/internal/types"
)

type SpecFileAdapter struct{}

func NewSpecFileAdapter() SpecFileAdapter {
	return SpecFileAdapter{}
}

func (a SpecFileAdapter) LoadProject(path string) (types.ProjectSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.ProjectSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("project spec file not found").
			WithCause(err)
	}
	var spec types.ProjectSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return types.ProjectSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project spec yaml").
			WithCause(err)
	}
	if spec.Kind != types.SpecKindProject {
		return types.ProjectSpec{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("spec kind is not project")
	}
	return spec, nil
}

var _ ports.ProjectSpecPort = SpecFileAdapter{}
