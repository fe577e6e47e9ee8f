// pkg/probe/probe.go

package probe

import (
	"context"
	"regexp"
	"strings"
	"time"

	version "github.com/hashicorp/go-version"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/keel_err"
)

// Package probe answers "is this tool installed, and which version" without
// mutating anything. A tool that is absent is a normal result; a version
// command that exists but cannot run is a distinct execution error, so
// callers never conflate "not installed" with "probe broken".

// Tool names a binary to probe and the arguments that print its version.
type Tool struct {
	Name        string
	VersionArgs []string
}

// Result of a single probe.
type Result struct {
	Present bool
	// Version is the raw extracted version string, empty when unparseable.
	Version string
	// Parsed is the semver interpretation, nil when the tool prints
	// something go-version cannot read. Absence of a parse is not an error.
	Parsed *version.Version
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)*`)

// Probe checks for the tool on PATH and, when found, asks it for a version.
func Probe(ctx context.Context, runner execute.Runner, tool Tool) (Result, error) {
	logger := otelzap.Ctx(ctx)

	if _, err := runner.LookPath(tool.Name); err != nil {
		logger.Debug("Tool not found on PATH", zap.String("tool", tool.Name))
		return Result{Present: false}, nil
	}

	args := tool.VersionArgs
	if len(args) == 0 {
		args = []string{"--version"}
	}

	out, err := runner.Run(ctx, execute.Options{
		Command: tool.Name,
		Args:    args,
		Capture: true,
		Timeout: 15 * time.Second,
	})
	if err != nil {
		// The binary exists but its version command failed: we cannot
		// safely decide install vs. skip from here.
		return Result{}, keel_err.NewProbeExecutionError(err, tool.Name)
	}

	res := Result{Present: true}
	if m := versionPattern.FindString(out); m != "" {
		res.Version = m
		if v, err := version.NewVersion(m); err == nil {
			res.Parsed = v
		}
	}

	logger.Debug("Tool present",
		zap.String("tool", tool.Name),
		zap.String("version", res.Version))
	return res, nil
}

// Preflight verifies the bootstrapper's own tooling is available before any
// mutating stage runs. Missing tools are fatal: nothing downstream can work
// without them.
func Preflight(ctx context.Context, runner execute.Runner, names ...string) error {
	logger := otelzap.Ctx(ctx)

	var missing []string
	for _, name := range names {
		if _, err := runner.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return keel_err.NewPreflightError(
			"required tooling missing: " + strings.Join(missing, ", "))
	}

	logger.Debug("Preflight tooling present", zap.Strings("tools", names))
	return nil
}
