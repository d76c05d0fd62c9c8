package adapters

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/ports"
	"pindown/internal/types"
)

type OutputReaderAdapter struct{}

func NewOutputReaderAdapter() OutputReaderAdapter {
	return OutputReaderAdapter{}
}

func (a OutputReaderAdapter) ReadRequirementsLock(path string) ([]types.LockEntry, error) {
	return readLockLines(path, types.DependencyTypePip, "==", "requirements.lock")
}

func (a OutputReaderAdapter) ReadPackagesLock(path string) ([]types.LockEntry, error) {
	return readLockLines(path, types.DependencyTypeApt, "=", "packages.lock")
}

func readLockLines(path string, depType types.DependencyType, separator string, label string) ([]types.LockEntry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(label + " not found").
			WithCause(err)
	}
	var entries []types.LockEntry
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, separator, 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid " + label + " line: " + line)
		}
		entries = append(entries, types.LockEntry{
			Type:    depType,
			Package: strings.TrimSpace(parts[0]),
			Version: strings.TrimSpace(parts[1]),
		})
	}
	return entries, nil
}

func (a OutputReaderAdapter) ReadLockIntent(path string) (types.LockIntent, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.LockIntent{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("lock.intent not found").
			WithCause(err)
	}
	intent := types.LockIntent{}
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return types.LockIntent{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid lock.intent format")
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		switch key {
		case "project":
			intent.Project = value
		case "target_python":
			intent.TargetPython = value
		case "lock_id":
			intent.LockID = value
		case "created_at":
			intent.CreatedAt = value
		}
	}
	if strings.TrimSpace(intent.LockID) == "" {
		return types.LockIntent{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("lock.intent missing lock_id")
	}
	return intent, nil
}

func (a OutputReaderAdapter) ReadAuditReport(path string) (types.AuditReport, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.AuditReport{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("audit.report not found").
			WithCause(err)
	}
	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = 6
	rows, err := reader.ReadAll()
	if err != nil {
		return types.AuditReport{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid audit.report format").
			WithCause(err)
	}
	report := types.AuditReport{Records: []types.AuditRecord{}}
	for _, row := range rows {
		report.Records = append(report.Records, types.AuditRecord{
			Dependency: row[0],
			Action:     row[1],
			Value:      row[2],
			Reason:     row[3],
			Owner:      row[4],
			ExpiresAt:  row[5],
		})
	}
	return report, nil
}

var _ ports.OutputReaderPort = OutputReaderAdapter{}
