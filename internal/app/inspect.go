package app

import (
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Inspect(req InspectRequest) (InspectResult, error) {
	outputDir := strings.TrimSpace(req.OutputDir)
	if outputDir == "" {
		return InspectResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is required")
	}
	pipLocks, err := s.OutputReader.ReadRequirementsLock(filepath.Join(outputDir, "requirements.lock"))
	if err != nil {
		return InspectResult{}, err
	}
	aptLocks, err := s.OutputReader.ReadPackagesLock(filepath.Join(outputDir, "packages.lock"))
	if err != nil {
		return InspectResult{}, err
	}
	intent, err := s.OutputReader.ReadLockIntent(filepath.Join(outputDir, "lock.intent"))
	if err != nil {
		return InspectResult{}, err
	}
	report, err := s.OutputReader.ReadAuditReport(filepath.Join(outputDir, "audit.report"))
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		Intent:   intent,
		PipLocks: pipLocks,
		AptLocks: aptLocks,
		Records:  report.Records,
	}, nil
}
