//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"pindown/internal/adapters"
	"pindown/internal/app"
	"pindown/internal/types"
)

// TestIndexBuildFromLiveRepositories builds a repo index against
// containerized pip and apt repositories, then locks a small project
// against it. Run with -tags integration; requires a container runtime.
func TestIndexBuildFromLiveRepositories(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping testcontainers integration in short mode")
	}

	ctx := context.Background()
	endpoint, cleanup := startRepositoryMock(ctx, t)
	t.Cleanup(cleanup)

	root := t.TempDir()
	indexPath := filepath.Join(root, "repo-index.yaml")

	service := app.NewService()
	indexResult, err := service.Index(ctx, app.IndexRequest{
		Output:           indexPath,
		PipIndex:         endpoint,
		AptEndpoint:      endpoint + "/apt",
		AptDistribution:  "stable",
		AptComponent:     "main",
		AptArch:          "amd64",
		HTTPTimeoutSec:   10,
		HTTPRetries:      2,
		HTTPRetryDelayMs: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, indexResult.PipCount)
	assert.Equal(t, 1, indexResult.AptCount)

	versions, err := adapters.NewRepoIndexFileAdapter(indexPath).AvailableVersions(types.DependencyTypePip, "samplepkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0.0", "1.1.0"}, versions)

	requirementsPath := filepath.Join(root, "requirements.txt")
	require.NoError(t, os.WriteFile(requirementsPath, []byte("samplepkg<1.1\n"), 0o644))
	packagesPath := filepath.Join(root, "packages.txt")
	require.NoError(t, os.WriteFile(packagesPath, []byte("sampletool\n"), 0o644))

	outDir := filepath.Join(root, "out")
	lockResult, err := service.Lock(ctx, app.LockRequest{
		Requirements: requirementsPath,
		Packages:     packagesPath,
		RepoIndex:    indexPath,
		OutputDir:    outDir,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lockResult.PipCount)
	assert.Equal(t, 1, lockResult.AptCount)

	locks, err := adapters.NewOutputReaderAdapter().ReadRequirementsLock(filepath.Join(outDir, "requirements.lock"))
	require.NoError(t, err)
	require.Len(t, locks, 1)
	assert.Equal(t, "1.0.0", locks[0].Version)
}

// startRepositoryMock serves a minimal pip simple index and apt
// Packages listing from a python container.
func startRepositoryMock(ctx context.Context, t *testing.T) (string, func()) {
	t.Helper()
	req := testcontainers.ContainerRequest{
		Image:        "python:3.12-alpine",
		ExposedPorts: []string{"8080/tcp"},
		Cmd:          []string{"python", "-c", repositoryMockScript},
		WaitingFor:   wait.ForListeningPort("8080/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8080/tcp")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())
	cleanup := func() {
		_ = container.Terminate(ctx)
	}
	return endpoint, cleanup
}

const repositoryMockScript = `
import http.server

SIMPLE_ROOT = '<a href="/simple/samplepkg/">samplepkg</a>'
SIMPLE_PKG = (
    '<a href="/files/samplepkg-1.0.0-py3-none-any.whl">samplepkg-1.0.0-py3-none-any.whl</a>'
    '<a href="/files/samplepkg-1.1.0-py3-none-any.whl">samplepkg-1.1.0-py3-none-any.whl</a>'
)
APT_PACKAGES = "Package: sampletool\nVersion: 1.2.3-1\nArchitecture: amd64\n\n"

class Handler(http.server.BaseHTTPRequestHandler):
    def do_GET(self):
        if self.path in ("/simple", "/simple/"):
            self.reply(200, SIMPLE_ROOT)
        elif self.path.startswith("/simple/samplepkg"):
            self.reply(200, SIMPLE_PKG)
        elif self.path == "/apt/dists/stable/main/binary-amd64/Packages":
            self.reply(200, APT_PACKAGES)
        else:
            self.reply(404, "not found")

    def reply(self, status, body):
        data = body.encode()
        self.send_response(status)
        self.send_header("Content-Length", str(len(data)))
        self.end_headers()
        self.wfile.write(data)

    def log_message(self, *args):
        pass

http.server.HTTPServer(("0.0.0.0", 8080), Handler).serve_forever()
`
