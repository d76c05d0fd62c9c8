package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pindown/internal/types"
)

func TestWriteAndReadRequirementsLock(t *testing.T) {
	dir := t.TempDir()
	writer := NewOutputFileAdapter(dir)
	entries := []types.LockEntry{
		{Type: types.DependencyTypePip, Package: "streamlit", Version: "1.29.0"},
		{Type: types.DependencyTypePip, Package: "numpy", Version: "1.26.2"},
		{Type: types.DependencyTypeApt, Package: "ffmpeg", Version: "7:6.1-1"},
	}
	require.NoError(t, writer.WriteRequirementsLock(entries))

	content, err := os.ReadFile(filepath.Join(dir, "requirements.lock"))
	require.NoError(t, err)
	assert.Equal(t, "numpy==1.26.2\nstreamlit==1.29.0", string(content))

	read, err := NewOutputReaderAdapter().ReadRequirementsLock(filepath.Join(dir, "requirements.lock"))
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, "numpy", read[0].Package)
	assert.Equal(t, types.DependencyTypePip, read[0].Type)
}

func TestWriteAndReadPackagesLock(t *testing.T) {
	dir := t.TempDir()
	writer := NewOutputFileAdapter(dir)
	entries := []types.LockEntry{
		{Type: types.DependencyTypeApt, Package: "libsndfile1", Version: "1.2.2-1"},
		{Type: types.DependencyTypeApt, Package: "ffmpeg", Version: "7:6.1-1ubuntu1"},
	}
	require.NoError(t, writer.WritePackagesLock(entries))

	read, err := NewOutputReaderAdapter().ReadPackagesLock(filepath.Join(dir, "packages.lock"))
	require.NoError(t, err)
	require.Len(t, read, 2)
	assert.Equal(t, "ffmpeg", read[0].Package)
	assert.Equal(t, "7:6.1-1ubuntu1", read[0].Version)
}

func TestWriteAndReadLockIntent(t *testing.T) {
	dir := t.TempDir()
	intent := types.LockIntent{
		Project:      "accent-analyzer",
		TargetPython: "3.11",
		LockID:       "lock-0a1b2c3d4e5f",
		CreatedAt:    "2026-01-01T00:00:00Z",
	}
	require.NoError(t, NewOutputFileAdapter(dir).WriteLockIntent(intent))

	read, err := NewOutputReaderAdapter().ReadLockIntent(filepath.Join(dir, "lock.intent"))
	require.NoError(t, err)
	assert.Equal(t, intent, read)
}

func TestReadLockIntentMissingLockID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lock.intent", "project=accent-analyzer\ntarget_python=3.11\n")

	_, err := NewOutputReaderAdapter().ReadLockIntent(filepath.Join(dir, "lock.intent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock_id")
}

func TestWriteAndReadAuditReport(t *testing.T) {
	dir := t.TempDir()
	report := types.AuditReport{Records: []types.AuditRecord{
		{Dependency: "pip:protobuf", Action: "force", Value: "4.25.1", Reason: "streamlit needs <4 but index dropped 3.x", Owner: "platform", ExpiresAt: "2026-12-31"},
	}}
	require.NoError(t, NewOutputFileAdapter(dir).WriteAuditReport(report))

	read, err := NewOutputReaderAdapter().ReadAuditReport(filepath.Join(dir, "audit.report"))
	require.NoError(t, err)
	require.Len(t, read.Records, 1)
	assert.Equal(t, report.Records[0], read.Records[0])
}

func TestAuditReportReasonWithComma(t *testing.T) {
	dir := t.TempDir()
	report := types.AuditReport{Records: []types.AuditRecord{
		{Dependency: "pip:protobuf", Action: "force", Value: "4.25.1", Reason: "streamlit needs protobuf>=4, the 3.20 pin predates the index", Owner: "platform"},
	}}
	require.NoError(t, NewOutputFileAdapter(dir).WriteAuditReport(report))

	read, err := NewOutputReaderAdapter().ReadAuditReport(filepath.Join(dir, "audit.report"))
	require.NoError(t, err)
	require.Len(t, read.Records, 1)
	assert.Equal(t, report.Records[0], read.Records[0])
}

func TestReadAuditReportMalformedLine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "audit.report", "pip:protobuf,force,4.25.1\n")

	_, err := NewOutputReaderAdapter().ReadAuditReport(filepath.Join(dir, "audit.report"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestReadRequirementsLockMissing(t *testing.T) {
	_, err := NewOutputReaderAdapter().ReadRequirementsLock(filepath.Join(t.TempDir(), "requirements.lock"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestWriteLockEmptyDir(t *testing.T) {
	err := NewOutputFileAdapter("").WriteRequirementsLock(nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
