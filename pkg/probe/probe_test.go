// pkg/probe/probe_test.go

package probe_test

import (
	"context"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/keel/pkg/keel_err"
	"github.com/keelworks/keel/pkg/probe"
	"github.com/keelworks/keel/pkg/testutil"
)

func TestProbeAbsentTool(t *testing.T) {
	runner := testutil.NewFakeRunner()

	res, err := probe.Probe(context.Background(), runner, probe.Tool{Name: "docker"})
	require.NoError(t, err)
	assert.False(t, res.Present)
	// Absence never runs the version command.
	assert.Empty(t, runner.Calls)
}

func TestProbePresentToolWithVersion(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Present["docker"] = true
	runner.VersionOutput["docker"] = "Docker version 26.1.3, build b72abbb"

	res, err := probe.Probe(context.Background(), runner, probe.Tool{Name: "docker", VersionArgs: []string{"--version"}})
	require.NoError(t, err)
	assert.True(t, res.Present)
	assert.Equal(t, "26.1.3", res.Version)
	require.NotNil(t, res.Parsed)
	assert.Equal(t, "26.1.3", res.Parsed.String())
}

func TestProbeUnparseableVersionIsStillPresent(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Present["psql"] = true
	runner.VersionOutput["psql"] = "psql (PostgreSQL) devel-snapshot"

	res, err := probe.Probe(context.Background(), runner, probe.Tool{Name: "psql"})
	require.NoError(t, err)
	assert.True(t, res.Present)
	assert.Empty(t, res.Version)
	assert.Nil(t, res.Parsed)
}

func TestProbeExecutionErrorIsDistinctFromAbsent(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Present["redis-cli"] = true
	runner.FailOn["redis-cli --version"] = cerr.New("segfault")

	_, err := probe.Probe(context.Background(), runner, probe.Tool{Name: "redis-cli"})
	require.Error(t, err)
	assert.True(t, keel_err.IsProbeExecutionError(err))
}

func TestPreflight(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Present["apt-get"] = true
	runner.Present["systemctl"] = true

	t.Run("all present", func(t *testing.T) {
		assert.NoError(t, probe.Preflight(context.Background(), runner, "apt-get", "systemctl"))
	})

	t.Run("missing tool is fatal and named", func(t *testing.T) {
		err := probe.Preflight(context.Background(), runner, "apt-get", "usermod")
		require.Error(t, err)
		assert.True(t, keel_err.IsPreflightError(err))
		assert.Contains(t, err.Error(), "usermod")
	})
}
