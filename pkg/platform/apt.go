// pkg/platform/apt.go

package platform

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/keel_err"
)

// apt operations for Debian-family hosts. Index refresh and installs are
// fatal on failure: a partially applied package transaction leaves system
// state undefined and must never be silently swallowed. Legacy-package
// removal is best effort because absence of a legacy package is the common
// case.

const aptTimeout = 10 * time.Minute

var nonInteractiveEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// UpdateIndex refreshes the apt package index.
func UpdateIndex(ctx context.Context, runner execute.Runner) error {
	logger := otelzap.Ctx(ctx)
	logger.Info("Refreshing package index")

	if _, err := runner.Run(ctx, execute.Options{
		Command: "apt-get",
		Args:    []string{"update"},
		Timeout: aptTimeout,
		Capture: true,
		Env:     nonInteractiveEnv,
	}); err != nil {
		return keel_err.NewPackageOperationError(err, "apt-get update")
	}
	return nil
}

// Install installs the given package set.
func Install(ctx context.Context, runner execute.Runner, pkgs ...string) error {
	logger := otelzap.Ctx(ctx)
	logger.Info("Installing packages", zap.Strings("packages", pkgs))

	args := append([]string{"install", "-y"}, pkgs...)
	if _, err := runner.Run(ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Timeout: aptTimeout,
		Capture: true,
		Env:     nonInteractiveEnv,
	}); err != nil {
		return keel_err.NewPackageOperationError(err, "apt-get install")
	}
	return nil
}

// Purge removes the given packages with their configuration. Used for the
// remove-then-fresh-install reinstall path, where failure is fatal.
func Purge(ctx context.Context, runner execute.Runner, pkgs ...string) error {
	logger := otelzap.Ctx(ctx)
	logger.Info("Purging packages for fresh install", zap.Strings("packages", pkgs))

	args := append([]string{"purge", "-y"}, pkgs...)
	if _, err := runner.Run(ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Timeout: aptTimeout,
		Capture: true,
		Env:     nonInteractiveEnv,
	}); err != nil {
		return keel_err.NewPackageOperationError(err, "apt-get purge")
	}
	return nil
}

// RemoveLegacy removes conflicting legacy packages before an install. A
// failure here is a warning, not an abort.
func RemoveLegacy(ctx context.Context, runner execute.Runner, pkgs ...string) keel_err.StepResult {
	const step = "remove legacy packages"

	if len(pkgs) == 0 {
		return keel_err.Ok(step)
	}

	logger := otelzap.Ctx(ctx)
	logger.Info("Removing conflicting legacy packages", zap.Strings("packages", pkgs))

	args := append([]string{"remove", "-y"}, pkgs...)
	if _, err := runner.Run(ctx, execute.Options{
		Command: "apt-get",
		Args:    args,
		Timeout: aptTimeout,
		Capture: true,
		Env:     nonInteractiveEnv,
	}); err != nil {
		return keel_err.Warning(step, err)
	}
	return keel_err.Ok(step)
}
