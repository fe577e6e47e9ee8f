// pkg/installer/install.go

package installer

import (
	"fmt"

	version "github.com/hashicorp/go-version"
	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/execute"
	"github.com/keelworks/keel/pkg/interaction"
	"github.com/keelworks/keel/pkg/keel_err"
	"github.com/keelworks/keel/pkg/keel_io"
	"github.com/keelworks/keel/pkg/ledger"
	"github.com/keelworks/keel/pkg/platform"
	"github.com/keelworks/keel/pkg/probe"
)

// Install runs the idempotent install-or-skip-or-reinstall decision for one
// target. The flow is identical for every target:
//
//  1. Probe. Absent means proceed to the install path.
//  2. Present means surface the version and ask before touching anything;
//     a decline (the unattended default) returns Skipped without mutation.
//  3. Install path: best-effort legacy removal, then index refresh and
//     package install, both fatal on failure.
//  4. Verify by re-probing; still absent after install aborts the run.
//
// Reinstall always means purge-then-fresh-install, never in-place upgrade.
func Install(rc *keel_io.RuntimeContext, runner execute.Runner, prompter interaction.Prompter, t Target) (Decision, error) {
	res, err := probe.Probe(rc.Ctx, runner, t.Probe)
	if err != nil {
		d := Failed(t.Name, err)
		rc.Report(ledger.Fatal, d.String())
		return d, err
	}

	reinstall := false
	if res.Present {
		rc.Report(ledger.Info, fmt.Sprintf("%s already present (version %s)", t.Name, displayVersion(res)))

		if !prompter.Confirm(reinstallPrompt(t, res), false) {
			d := Skipped(t.Name, ReasonAlreadyPresent)
			rc.Report(ledger.Info, d.String())
			return d, nil
		}
		reinstall = true

		rc.Report(ledger.Info, fmt.Sprintf("%s: reinstall confirmed, purging current packages", t.Name))
		if err := platform.Purge(rc.Ctx, runner, t.Packages...); err != nil {
			d := Failed(t.Name, err)
			rc.Report(ledger.Fatal, d.String())
			return d, err
		}
	}

	if step := platform.RemoveLegacy(rc.Ctx, runner, t.LegacyPackages...); step.IsWarning() {
		rc.Report(ledger.Warn, fmt.Sprintf("%s: %s", t.Name, step.Error()))
	}

	if err := platform.UpdateIndex(rc.Ctx, runner); err != nil {
		d := Failed(t.Name, err)
		rc.Report(ledger.Fatal, d.String())
		return d, err
	}

	if err := platform.Install(rc.Ctx, runner, t.Packages...); err != nil {
		d := Failed(t.Name, err)
		rc.Report(ledger.Fatal, d.String())
		return d, err
	}

	// Verify: the probe that decided "absent" must now report present.
	verify, err := probe.Probe(rc.Ctx, runner, t.Probe)
	if err != nil {
		d := Failed(t.Name, err)
		rc.Report(ledger.Fatal, d.String())
		return d, err
	}
	if !verify.Present {
		verr := keel_err.NewVerificationError(t.Name)
		d := Failed(t.Name, verr)
		rc.Report(ledger.Fatal, d.String())
		return d, verr
	}

	rc.Log.Info("Target verified after install",
		zap.String("target", t.Name),
		zap.String("version", displayVersion(verify)))

	var d Decision
	if reinstall {
		d = Reinstalled(t.Name)
	} else {
		d = Installed(t.Name)
	}
	rc.Report(ledger.Info, d.String())
	return d, nil
}

func reinstallPrompt(t Target, res probe.Result) string {
	prompt := fmt.Sprintf("%s is already installed (version %s). Remove and reinstall?",
		t.Name, displayVersion(res))

	if t.MinVersion != "" && res.Parsed != nil {
		if minV, err := version.NewVersion(t.MinVersion); err == nil && res.Parsed.LessThan(minV) {
			prompt = fmt.Sprintf("%s is already installed but outdated (version %s, recommended >= %s). Remove and reinstall?",
				t.Name, displayVersion(res), t.MinVersion)
		}
	}
	return prompt
}

func displayVersion(res probe.Result) string {
	if res.Version == "" {
		return "unknown"
	}
	return res.Version
}
