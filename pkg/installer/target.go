// pkg/installer/target.go

package installer

import "github.com/keelworks/keel/pkg/probe"

// Target is a named external dependency with defined probe, install and
// verify operations. Probe and verify use the same tool, so a target that
// probes present always verifies without re-running install.
type Target struct {
	Name string

	// Probe detects presence and version; also used for post-install verify.
	Probe probe.Tool

	// LegacyPackages are removed best-effort before install.
	LegacyPackages []string

	// Packages are installed (and purged on reinstall) as one set.
	Packages []string

	// MinVersion, when set, drives an advisory in the reinstall prompt for
	// already-present tools older than it. Purely informational.
	MinVersion string

	// Service is the systemd unit for targets that install a long-running
	// daemon; empty for CLI-only targets.
	Service string

	// AdminGroup, when set, is the group the invoking user is added to
	// after install (warning on failure).
	AdminGroup string
}

// Names of the fixed targets, in their fixed install order.
const (
	TargetDocker   = "docker"
	TargetRedisCLI = "redis-cli"
	TargetPSQL     = "psql"
)

// DefaultTargets returns the three install targets in the fixed dependency
// order the orchestrator relies on.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:           TargetDocker,
			Probe:          probe.Tool{Name: "docker", VersionArgs: []string{"--version"}},
			LegacyPackages: []string{"docker", "docker-engine", "docker-doc", "podman-docker"},
			Packages:       []string{"docker.io", "docker-compose-v2"},
			MinVersion:     "24.0.0",
			Service:        "docker",
			AdminGroup:     "docker",
		},
		{
			Name:     TargetRedisCLI,
			Probe:    probe.Tool{Name: "redis-cli", VersionArgs: []string{"--version"}},
			Packages: []string{"redis-tools"},
		},
		{
			Name:     TargetPSQL,
			Probe:    probe.Tool{Name: "psql", VersionArgs: []string{"--version"}},
			Packages: []string{"postgresql-client"},
		},
	}
}
