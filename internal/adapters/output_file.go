package adapters

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pindown/internal/ports"
	"pindown/internal/types"
)

type OutputFileAdapter struct {
	Dir string
}

func NewOutputFileAdapter(dir string) OutputFileAdapter {
	return OutputFileAdapter{Dir: dir}
}

func (a OutputFileAdapter) WriteRequirementsLock(entries []types.LockEntry) error {
	path, err := a.ensurePath("requirements.lock")
	if err != nil {
		return err
	}
	return writeLockLines(path, entries, types.DependencyTypePip, "==")
}

func (a OutputFileAdapter) WritePackagesLock(entries []types.LockEntry) error {
	path, err := a.ensurePath("packages.lock")
	if err != nil {
		return err
	}
	return writeLockLines(path, entries, types.DependencyTypeApt, "=")
}

func writeLockLines(path string, entries []types.LockEntry, depType types.DependencyType, separator string) error {
	var filtered []types.LockEntry
	for _, entry := range entries {
		if entry.Type == depType {
			filtered = append(filtered, entry)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Package < filtered[j].Package
	})
	var lines []string
	for _, entry := range filtered {
		lines = append(lines, fmt.Sprintf("%s%s%s", entry.Package, separator, entry.Version))
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644)
}

func (a OutputFileAdapter) WriteLockIntent(intent types.LockIntent) error {
	path, err := a.ensurePath("lock.intent")
	if err != nil {
		return err
	}
	content := fmt.Sprintf(
		"project=%s\ntarget_python=%s\nlock_id=%s\ncreated_at=%s\n",
		intent.Project,
		intent.TargetPython,
		intent.LockID,
		intent.CreatedAt,
	)
	return os.WriteFile(path, []byte(content), 0644)
}

func (a OutputFileAdapter) WriteAuditReport(report types.AuditReport) error {
	path, err := a.ensurePath("audit.report")
	if err != nil {
		return err
	}
	ordered := append([]types.AuditRecord(nil), report.Records...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Dependency != ordered[j].Dependency {
			return ordered[i].Dependency < ordered[j].Dependency
		}
		if ordered[i].Action != ordered[j].Action {
			return ordered[i].Action < ordered[j].Action
		}
		return ordered[i].Value < ordered[j].Value
	})
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, record := range ordered {
		row := []string{
			record.Dependency,
			record.Action,
			record.Value,
			record.Reason,
			record.Owner,
			record.ExpiresAt,
		}
		if err := writer.Write(row); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode audit.report").
				WithCause(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode audit.report").
			WithCause(err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func (a OutputFileAdapter) ensurePath(filename string) (string, error) {
	if a.Dir == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("output directory is empty")
	}
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create output directory").
			WithCause(err)
	}
	return filepath.Join(a.Dir, filename), nil
}

var _ ports.OutputPort = OutputFileAdapter{}
