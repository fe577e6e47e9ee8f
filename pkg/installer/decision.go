// pkg/installer/decision.go

package installer

import "fmt"

// Outcome is the per-target provisioning result. Exactly one decision is
// recorded per target per run, write-once.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeInstalled
	OutcomeReinstalled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInstalled:
		return "installed"
	case OutcomeReinstalled:
		return "reinstalled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Skip reasons. "requested" (via flag) is deliberately distinct from
// "already present" (operator declined reinstall).
const (
	ReasonRequested      = "requested"
	ReasonAlreadyPresent = "already present"
)

// Decision records what happened to one install target.
type Decision struct {
	Target  string
	Outcome Outcome
	Reason  string
	Cause   error
}

func Skipped(target, reason string) Decision {
	return Decision{Target: target, Outcome: OutcomeSkipped, Reason: reason}
}

func Installed(target string) Decision {
	return Decision{Target: target, Outcome: OutcomeInstalled}
}

func Reinstalled(target string) Decision {
	return Decision{Target: target, Outcome: OutcomeReinstalled}
}

func Failed(target string, cause error) Decision {
	return Decision{Target: target, Outcome: OutcomeFailed, Cause: cause}
}

func (d Decision) String() string {
	switch d.Outcome {
	case OutcomeSkipped:
		return fmt.Sprintf("%s: skipped (%s)", d.Target, d.Reason)
	case OutcomeFailed:
		return fmt.Sprintf("%s: failed: %v", d.Target, d.Cause)
	default:
		return fmt.Sprintf("%s: %s", d.Target, d.Outcome)
	}
}
