package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/internal/ports"
	"pindown/internal/types"
)

type fakeIndexBuilder struct {
	request ports.RepoIndexBuildRequest
	index   types.RepoIndexFile
	err     error
}

func (f *fakeIndexBuilder) Build(ctx context.Context, request ports.RepoIndexBuildRequest) (types.RepoIndexFile, error) {
	f.request = request
	return f.index, f.err
}

type fakeIndexWriter struct {
	path  string
	index types.RepoIndexFile
}

func (f *fakeIndexWriter) Write(path string, index types.RepoIndexFile) error {
	f.path = path
	f.index = index
	return nil
}

func TestIndexBuildsAndWrites(t *testing.T) {
	builder := &fakeIndexBuilder{index: types.RepoIndexFile{
		Pip: map[string][]string{"numpy": {"1.26.2"}, "streamlit": {"1.29.0"}},
		Apt: map[string][]string{"ffmpeg": {"7:6.1-1ubuntu1"}},
	}}
	writer := &fakeIndexWriter{}
	service := testService()
	service.RepoIndexBuild = builder
	service.RepoIndexWriter = writer

	result, err := service.Index(context.Background(), IndexRequest{
		Output:      "repo-index.yaml",
		PipIndex:    " https://pypi.org/simple/ ",
		PipPackages: []string{"numpy", "streamlit"},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://pypi.org/simple/", builder.request.PipIndex)
	assert.Equal(t, []string{"numpy", "streamlit"}, builder.request.PipPackages)
	assert.Equal(t, "repo-index.yaml", writer.path)
	assert.Equal(t, "repo-index.yaml", result.OutputPath)
	assert.Equal(t, 2, result.PipCount)
	assert.Equal(t, 1, result.AptCount)
}
