package ports

import (
	"context"

	"pindown/internal/types"
)

type RepoIndexBuildRequest struct {
	PipIndex         string
	PipUser          string
	PipAPIKey        string
	PipPackages      []string
	PipWorkers       int
	AptEndpoint      string
	AptDistribution  string
	AptComponent     string
	AptArch          string
	AptUser          string
	AptAPIKey        string
	AptPackages      []string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type RepoIndexBuilderPort interface {
	Build(ctx context.Context, request RepoIndexBuildRequest) (types.RepoIndexFile, error)
}

type RepoIndexWriterPort interface {
	Write(path string, index types.RepoIndexFile) error
}
