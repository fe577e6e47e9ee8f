// pkg/execute/execute.go

package execute

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Package execute provides command execution with structured logging.
// Shell execution is not supported: callers pass argv explicitly so no
// input ever reaches a shell interpreter.

// Options describes one external command invocation. Every call is a finite
// synchronous operation bounded by Timeout.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Timeout time.Duration
	Retries int
	Delay   time.Duration
	Capture bool
	Env     []string
}

// Runner abstracts command execution and PATH lookup so provisioning logic
// can be exercised against a recording fake in tests.
type Runner interface {
	Run(ctx context.Context, opts Options) (string, error)
	LookPath(name string) (string, error)
}

// CommandRunner is the production Runner backed by os/exec. With DryRun set
// it logs what would run and executes nothing.
type CommandRunner struct {
	DryRun bool
}

func NewRunner(dryRun bool) *CommandRunner {
	return &CommandRunner{DryRun: dryRun}
}

// Run executes the command, retrying per opts, and returns captured output
// when opts.Capture is set.
func (r *CommandRunner) Run(ctx context.Context, opts Options) (string, error) {
	logger := otelzap.Ctx(ctx)
	cmdStr := opts.Command + " " + strings.Join(opts.Args, " ")

	if r.DryRun {
		logger.Info("Dry run mode - command not executed", zap.String("command", cmdStr))
		return "", nil
	}

	runCtx, cancel := context.WithTimeout(ctx, defaultTimeout(opts.Timeout))
	defer cancel()

	logger.Debug("Starting execution", zap.String("command", cmdStr))

	attempts := max(1, opts.Retries)

	var output string
	var err error
	for i := 1; i <= attempts; i++ {
		cmd := exec.CommandContext(runCtx, opts.Command, opts.Args...)
		if opts.Dir != "" {
			cmd.Dir = opts.Dir
		}
		if len(opts.Env) > 0 {
			cmd.Env = append(cmd.Environ(), opts.Env...)
		}

		var buf bytes.Buffer
		cmd.Stdout = &buf
		cmd.Stderr = &buf

		err = cmd.Run()
		output = buf.String()

		if err == nil {
			logger.Debug("Execution succeeded", zap.String("command", cmdStr))
			break
		}

		logger.Warn("Execution failed",
			zap.Int("attempt", i),
			zap.String("command", cmdStr),
			zap.String("summary", Summarize(output, 2)),
			zap.Error(err))

		if i < attempts {
			time.Sleep(opts.Delay)
		}
	}

	if err != nil {
		return output, cerr.Wrapf(err, "command %q failed after %d attempt(s)", cmdStr, attempts)
	}

	if opts.Capture {
		return output, nil
	}
	return "", nil
}

// LookPath resolves a binary on PATH without mutating anything.
func (r *CommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Summarize returns the last n non-empty lines of command output, enough to
// explain a failure without flooding the log.
func Summarize(output string, n int) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, strings.TrimSpace(l))
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " | ")
}

func defaultTimeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	return 30 * time.Second
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
