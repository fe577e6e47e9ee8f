// pkg/keel_unix/systemctl.go

package keel_unix

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/execute"
)

// Package keel_unix ensures installed daemons reach their desired state:
// enabled at boot and currently running. The two sub-operations are
// independent pieces of desired state, so both are attempted even when one
// fails and the combined report lists exactly which failed.

// Systemctl exit codes, per systemctl(1). is-active and is-enabled return
// different meanings for the same numbers than start/stop do.
const (
	ExitSuccess     = 0
	ExitGenericFail = 1
	ExitInactive    = 3
	ExitUnknown     = 4
	ExitNotLoaded   = 5
)

const systemctlTimeout = 1 * time.Minute

// EnsureEnabledAndRunning enables the unit at boot and starts it now,
// attempting both regardless of individual failures.
func EnsureEnabledAndRunning(ctx context.Context, runner execute.Runner, unit string) error {
	logger := otelzap.Ctx(ctx)
	logger.Info("Ensuring service is enabled and running", zap.String("unit", unit))

	var result *multierror.Error

	if out, err := runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"enable", unit},
		Timeout: systemctlTimeout,
		Capture: true,
	}); err != nil {
		logger.Error("Failed to enable service at boot",
			zap.String("unit", unit),
			zap.String("output", execute.Summarize(out, 2)),
			zap.Error(err))
		result = multierror.Append(result, fmt.Errorf("enable %s: %w", unit, err))
	}

	if out, err := runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"start", unit},
		Timeout: systemctlTimeout,
		Capture: true,
	}); err != nil {
		logger.Error("Failed to start service",
			zap.String("unit", unit),
			zap.String("output", execute.Summarize(out, 2)),
			zap.Error(err))
		result = multierror.Append(result, fmt.Errorf("start %s: %w", unit, err))
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	logger.Info("Service enabled and started", zap.String("unit", unit))
	return nil
}

// IsActive reports whether the unit is currently running. Non-zero exit
// from is-active means inactive, not an execution failure.
func IsActive(ctx context.Context, runner execute.Runner, unit string) bool {
	_, err := runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"is-active", "--quiet", unit},
		Timeout: systemctlTimeout,
		Capture: true,
	})
	return err == nil
}

// IsEnabled reports whether the unit is enabled at boot.
func IsEnabled(ctx context.Context, runner execute.Runner, unit string) bool {
	_, err := runner.Run(ctx, execute.Options{
		Command: "systemctl",
		Args:    []string{"is-enabled", "--quiet", unit},
		Timeout: systemctlTimeout,
		Capture: true,
	})
	return err == nil
}
