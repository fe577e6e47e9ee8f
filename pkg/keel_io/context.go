// pkg/keel_io/context.go

package keel_io

import (
	"context"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/ledger"
)

// Config is the run configuration resolved once from process arguments.
// It is never mutated after the command wrapper hands it to the stages.
type Config struct {
	SkipDocker     bool
	SkipRedisCLI   bool
	SkipPSQL       bool
	NonInteractive bool
	DryRun         bool
	HtpasswdPath   string
	ManifestPath   string
}

// RuntimeContext carries everything a stage needs: the context, the logger,
// the run ledger, the resolved configuration, and the invoking-user
// identity. Stages read from it; only the command wrapper constructs it.
type RuntimeContext struct {
	Ctx       context.Context
	Log       *zap.Logger
	Ledger    *ledger.Ledger
	RunID     string
	Timestamp time.Time
	Command   string
	Config    Config

	// Invoking user, captured once by the privilege guard.
	Username string
	SudoUser string
	Elevated bool
}

// NewContext opens the run ledger in ledgerDir and wires up a named logger.
func NewContext(ctx context.Context, cmdName, ledgerDir string) (*RuntimeContext, error) {
	runID := uuid.NewString()

	led, err := ledger.Open(ledgerDir, runID)
	if err != nil {
		return nil, cerr.Wrap(err, "open run ledger")
	}

	log := zap.L().Named(cmdName).With(zap.String("run_id", runID))

	return &RuntimeContext{
		Ctx:       ctx,
		Log:       log,
		Ledger:    led,
		RunID:     runID,
		Timestamp: time.Now(),
		Command:   cmdName,
	}, nil
}

// Report writes the same text to the console log and the run ledger so the
// two surfaces never disagree.
func (rc *RuntimeContext) Report(sev ledger.Severity, msg string, fields ...zap.Field) {
	switch sev {
	case ledger.Warn:
		rc.Log.Warn(msg, fields...)
	case ledger.Fatal:
		rc.Log.Error(msg, fields...)
	default:
		rc.Log.Info(msg, fields...)
	}
	if err := rc.Ledger.Record(sev, msg); err != nil {
		rc.Log.Warn("Failed to record ledger entry", zap.Error(err))
	}
}

// HandlePanic recovers panics, logs them, and converts them to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End records the final run outcome, flushes the ledger, and logs duration.
func (rc *RuntimeContext) End(errPtr *error) {
	duration := time.Since(rc.Timestamp)

	if *errPtr == nil {
		rc.Report(ledger.Info, "run completed", zap.Duration("duration", duration))
	} else {
		rc.Report(ledger.Fatal, "run aborted: "+(*errPtr).Error(), zap.Duration("duration", duration))
	}

	if err := rc.Ledger.Close(); err != nil {
		rc.Log.Warn("Failed to close ledger", zap.Error(err))
	}
}
