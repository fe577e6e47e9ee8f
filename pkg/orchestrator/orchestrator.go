// pkg/orchestrator/orchestrator.go

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/credentials"
	"github.com/keelworks/keel/pkg/docker"
	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/installer"
	"github.com/keelworks/keel/pkg/interaction"
	"github.com/keelworks/keel/pkg/keel_io"
	"github.com/keelworks/keel/pkg/keel_unix"
	"github.com/keelworks/keel/pkg/ledger"
	"github.com/keelworks/keel/pkg/manifest"
	"github.com/keelworks/keel/pkg/platform"
	"github.com/keelworks/keel/pkg/probe"
)

// Stage names the orchestrator's state machine states. Order is fixed:
// later stages assume earlier ones succeeded.
type Stage string

const (
	StageInit                Stage = "init"
	StagePrivilegeCheck      Stage = "privilege-check"
	StageDependencyCheck     Stage = "dependency-check"
	StageInstall             Stage = "install"
	StageServiceEnable       Stage = "service-enable"
	StageCredentialBootstrap Stage = "credential-bootstrap"
	StageManifestCheck       Stage = "manifest-check"
	StageDone                Stage = "done"
	StageAborted             Stage = "aborted"
)

// AdminPrincipal is the reverse-proxy basic-auth principal keel provisions.
const AdminPrincipal = "admin"

const adminPrompt = `Password for dashboard user "admin" (leave empty to generate one)`

// preflightTools is the bootstrapper's own tooling, probed before any
// mutating stage runs.
var preflightTools = []string{"apt-get", "systemctl", "usermod"}

// Orchestrator sequences the provisioning stages. Every collaborator is
// injected so tests run it against fakes end to end.
type Orchestrator struct {
	Runner   execute.Runner
	Prompter interaction.Prompter
	Targets  []installer.Target
	Store    credentials.Store

	// CheckPrivilege defaults to platform.RequireRoot.
	CheckPrivilege func() (platform.InvokingUser, error)
	// VerifyRuntime is the post-enable daemon reachability check; nil
	// disables it. Its failure is a warning, not an abort: systemd can
	// report the unit started before the API socket settles.
	VerifyRuntime func(ctx context.Context) error

	PreflightTools []string
}

// Report is the run outcome: the terminal stage reached and the write-once
// decision per install target.
type Report struct {
	Stage     Stage
	Decisions map[string]installer.Decision
}

// New builds a production orchestrator over the fixed default targets.
func New(runner execute.Runner, prompter interaction.Prompter, store credentials.Store) *Orchestrator {
	return &Orchestrator{
		Runner:         runner,
		Prompter:       prompter,
		Targets:        installer.DefaultTargets(),
		Store:          store,
		CheckPrivilege: platform.RequireRoot,
		VerifyRuntime:  docker.Ping,
		PreflightTools: preflightTools,
	}
}

// Run drives the state machine to Done or Aborted. Any fatal error halts
// the run at that point; decisions already made are retained, never rolled
// back.
func (o *Orchestrator) Run(rc *keel_io.RuntimeContext) (*Report, error) {
	report := &Report{
		Stage:     StageInit,
		Decisions: make(map[string]installer.Decision),
	}

	if err := o.privilegeCheck(rc, report); err != nil {
		return o.abort(rc, report, err)
	}
	if err := o.dependencyCheck(rc, report); err != nil {
		return o.abort(rc, report, err)
	}
	if err := o.install(rc, report); err != nil {
		return o.abort(rc, report, err)
	}
	if err := o.serviceEnable(rc, report); err != nil {
		return o.abort(rc, report, err)
	}
	if err := o.credentialBootstrap(rc, report); err != nil {
		return o.abort(rc, report, err)
	}
	if err := o.manifestCheck(rc, report); err != nil {
		return o.abort(rc, report, err)
	}

	o.enter(rc, report, StageDone)
	return report, nil
}

func (o *Orchestrator) enter(rc *keel_io.RuntimeContext, report *Report, s Stage) {
	report.Stage = s
	rc.Report(ledger.Info, "stage: "+string(s))
}

func (o *Orchestrator) abort(rc *keel_io.RuntimeContext, report *Report, err error) (*Report, error) {
	failedAt := report.Stage
	report.Stage = StageAborted
	rc.Report(ledger.Fatal, fmt.Sprintf("aborted during %s: %v", failedAt, err))
	return report, err
}

func (o *Orchestrator) privilegeCheck(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StagePrivilegeCheck)

	iu, err := o.CheckPrivilege()
	if err != nil {
		return err
	}

	rc.Username = iu.Username
	rc.SudoUser = iu.SudoUser
	rc.Elevated = true

	rc.Log.Info("Privilege check passed",
		zap.String("user", iu.Username),
		zap.String("sudo_user", iu.SudoUser))
	return nil
}

func (o *Orchestrator) dependencyCheck(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StageDependencyCheck)
	return probe.Preflight(rc.Ctx, o.Runner, o.PreflightTools...)
}

func (o *Orchestrator) install(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StageInstall)

	for _, t := range o.Targets {
		if o.skipRequested(rc.Config, t.Name) {
			d := installer.Skipped(t.Name, installer.ReasonRequested)
			report.Decisions[t.Name] = d
			rc.Report(ledger.Info, d.String())
			continue
		}

		d, err := installer.Install(rc, o.Runner, o.Prompter, t)
		report.Decisions[t.Name] = d
		if err != nil {
			return err
		}

		if t.AdminGroup != "" && mutated(d) {
			user := rc.SudoUser
			if user == "" {
				user = rc.Username
			}
			if step := docker.AddUserToGroup(rc.Ctx, o.Runner, t.AdminGroup, user); step.IsWarning() {
				rc.Report(ledger.Warn, step.Error())
			}
		}
	}
	return nil
}

func (o *Orchestrator) serviceEnable(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StageServiceEnable)

	for _, t := range o.Targets {
		if t.Service == "" {
			continue
		}

		if d, ok := report.Decisions[t.Name]; ok &&
			d.Outcome == installer.OutcomeSkipped && d.Reason == installer.ReasonRequested {
			rc.Report(ledger.Info, fmt.Sprintf("service %s: enable skipped (requested)", t.Service))
			continue
		}

		if err := keel_unix.EnsureEnabledAndRunning(rc.Ctx, o.Runner, t.Service); err != nil {
			return err
		}
		rc.Report(ledger.Info, fmt.Sprintf("service %s enabled and running", t.Service))

		if o.VerifyRuntime != nil {
			if err := o.VerifyRuntime(rc.Ctx); err != nil {
				rc.Report(ledger.Warn, fmt.Sprintf("runtime API not reachable yet: %v", err))
			} else {
				rc.Log.Info("Runtime API reachable", zap.String("service", t.Service))
			}
		}
	}
	return nil
}

func (o *Orchestrator) credentialBootstrap(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StageCredentialBootstrap)
	return credentials.Bootstrap(rc, o.Prompter, o.Store, AdminPrincipal, adminPrompt)
}

func (o *Orchestrator) manifestCheck(rc *keel_io.RuntimeContext, report *Report) error {
	o.enter(rc, report, StageManifestCheck)

	path := rc.Config.ManifestPath
	if path == "" {
		rc.Report(ledger.Info, "no topology manifest configured; compose start left to operator")
		return nil
	}

	m, err := manifest.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Absence is tolerated: the manifest is an external
			// collaborator keel consumes when present, not something
			// it owns.
			rc.Report(ledger.Warn, fmt.Sprintf("topology manifest %s not found; compose start left to operator", path))
			return nil
		}
		return err
	}

	if err := m.Validate(); err != nil {
		return err
	}

	rc.Report(ledger.Info, m.Summary())
	return nil
}

func (o *Orchestrator) skipRequested(cfg keel_io.Config, target string) bool {
	switch target {
	case installer.TargetDocker:
		return cfg.SkipDocker
	case installer.TargetRedisCLI:
		return cfg.SkipRedisCLI
	case installer.TargetPSQL:
		return cfg.SkipPSQL
	default:
		return false
	}
}

func mutated(d installer.Decision) bool {
	return d.Outcome == installer.OutcomeInstalled || d.Outcome == installer.OutcomeReinstalled
}
