// cmd/root.go

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/credentials"
	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/interaction"
	"github.com/keelworks/keel/pkg/keel_cli"
	"github.com/keelworks/keel/pkg/keel_err"
	"github.com/keelworks/keel/pkg/keel_io"
	"github.com/keelworks/keel/pkg/logger"
	"github.com/keelworks/keel/pkg/orchestrator"
)

// RootCmd is keel's single-purpose entry point: provision the local
// development stack. Unknown flags are ignored rather than rejected, a
// documented limitation for forward compatibility of wrapper scripts.
var RootCmd = &cobra.Command{
	Use:   "keel",
	Short: "Provision the local multi-service development environment",
	Long: `keel idempotently provisions the host for the local development stack:
container runtime, cache and database clients, the dashboard proxy's
basic-auth credentials, and a validated service topology. Re-running against
an already-provisioned host mutates nothing.`,
	SilenceUsage:       true,
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE:               keel_cli.Wrap(runBootstrap),
}

func init() {
	f := RootCmd.Flags()
	f.Bool("skip-docker", false, "skip the container runtime install target")
	f.Bool("skip-redis-cli", false, "skip the cache client install target")
	f.Bool("skip-psql", false, "skip the database client install target")
	f.Bool("non-interactive", false, "never prompt: decline reinstalls, generate credentials")
	f.Bool("dry-run", false, "log commands without executing them")
	f.String("htpasswd-file", "deploy/htpasswd", "reverse proxy credential store path")
	f.String("manifest", "deploy/stack.yaml", "service topology manifest path")
}

func runBootstrap(rc *keel_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	rc.Config = cfg

	rc.Log.Info("Starting provisioning run",
		zap.Bool("skip_docker", cfg.SkipDocker),
		zap.Bool("skip_redis_cli", cfg.SkipRedisCLI),
		zap.Bool("skip_psql", cfg.SkipPSQL),
		zap.Bool("non_interactive", cfg.NonInteractive),
		zap.Bool("dry_run", cfg.DryRun),
		zap.String("ledger", rc.Ledger.Path()))

	runner := execute.NewRunner(cfg.DryRun)

	var prompter interaction.Prompter = interaction.NewTerminalPrompter()
	if cfg.NonInteractive {
		// Zero value: decline every reinstall, generate every credential.
		prompter = &interaction.ScriptedPrompter{}
	}

	orch := orchestrator.New(runner, prompter, credentials.NewHtpasswdStore(cfg.HtpasswdPath))
	if cfg.DryRun {
		orch.VerifyRuntime = nil
	}

	report, err := orch.Run(rc)
	if err != nil {
		return err
	}

	rc.Log.Info("Provisioning complete",
		zap.String("stage", string(report.Stage)),
		zap.Int("targets", len(report.Decisions)))
	return nil
}

// resolveConfig reads the flag surface exactly once; the resulting Config
// is immutable for the run's lifetime.
func resolveConfig(cmd *cobra.Command) (keel_io.Config, error) {
	f := cmd.Flags()

	var cfg keel_io.Config
	var err error

	if cfg.SkipDocker, err = f.GetBool("skip-docker"); err != nil {
		return cfg, err
	}
	if cfg.SkipRedisCLI, err = f.GetBool("skip-redis-cli"); err != nil {
		return cfg, err
	}
	if cfg.SkipPSQL, err = f.GetBool("skip-psql"); err != nil {
		return cfg, err
	}
	if cfg.NonInteractive, err = f.GetBool("non-interactive"); err != nil {
		return cfg, err
	}
	if cfg.DryRun, err = f.GetBool("dry-run"); err != nil {
		return cfg, err
	}
	if cfg.HtpasswdPath, err = f.GetString("htpasswd-file"); err != nil {
		return cfg, err
	}
	if cfg.ManifestPath, err = f.GetString("manifest"); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Execute runs the CLI and maps outcomes to termination status: zero on
// success or expected operator outcomes, non-zero on any fatal failure.
func Execute() {
	defer func() {
		_ = logger.Sync()
	}()

	if err := RootCmd.Execute(); err != nil {
		if keel_err.IsExpectedUserError(err) {
			logger.L().Warn("Run ended by operator choice", zap.Error(err))
			os.Exit(0)
		}
		os.Exit(1)
	}
}
