// pkg/docker/group.go

package docker

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/keel_err"
)

// AddUserToGroup adds the invoking user to the runtime's administrative
// group so they can talk to the daemon without sudo after re-login.
// Failure is a warning: the rest of the environment still functions, only
// interactive use before re-login is affected.
func AddUserToGroup(ctx context.Context, runner execute.Runner, group, username string) keel_err.StepResult {
	step := "add user to " + group + " group"

	logger := otelzap.Ctx(ctx)

	if username == "" {
		logger.Warn("No invoking user to add to group (not run via sudo?)",
			zap.String("group", group))
		return keel_err.Ok(step)
	}

	logger.Info("Adding user to group",
		zap.String("user", username),
		zap.String("group", group))

	if _, err := runner.Run(ctx, execute.Options{
		Command: "usermod",
		Args:    []string{"-aG", group, username},
		Timeout: 30 * time.Second,
		Capture: true,
	}); err != nil {
		return keel_err.Warning(step, err)
	}

	logger.Info("User added to group; re-login required to take effect",
		zap.String("user", username),
		zap.String("group", group))
	return keel_err.Ok(step)
}
