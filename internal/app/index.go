package app

import (
	"context"
	"strings"

	"pindown/internal/ports"
)

func (s Service) Index(ctx context.Context, req IndexRequest) (IndexResult, error) {
	buildRequest := ports.RepoIndexBuildRequest{
		PipIndex:         strings.TrimSpace(req.PipIndex),
		PipUser:          strings.TrimSpace(req.PipUser),
		PipAPIKey:        strings.TrimSpace(req.PipAPIKey),
		PipPackages:      req.PipPackages,
		PipWorkers:       req.PipWorkers,
		AptEndpoint:      strings.TrimSpace(req.AptEndpoint),
		AptDistribution:  strings.TrimSpace(req.AptDistribution),
		AptComponent:     strings.TrimSpace(req.AptComponent),
		AptArch:          strings.TrimSpace(req.AptArch),
		AptUser:          strings.TrimSpace(req.AptUser),
		AptAPIKey:        strings.TrimSpace(req.AptAPIKey),
		AptPackages:      req.AptPackages,
		HTTPTimeoutSec:   req.HTTPTimeoutSec,
		HTTPRetries:      req.HTTPRetries,
		HTTPRetryDelayMs: req.HTTPRetryDelayMs,
	}
	index, err := s.RepoIndexBuild.Build(ctx, buildRequest)
	if err != nil {
		return IndexResult{}, err
	}
	if err := s.RepoIndexWriter.Write(strings.TrimSpace(req.Output), index); err != nil {
		return IndexResult{}, err
	}
	return IndexResult{
		OutputPath: strings.TrimSpace(req.Output),
		PipCount:   len(index.Pip),
		AptCount:   len(index.Apt),
	}, nil
}
