// pkg/keel_err/step.go

package keel_err

import "fmt"

// StepStatus is the three-way outcome of one provisioning operation.
// Callers branch on the tag, never on raw exit codes.
type StepStatus int

const (
	StepOk StepStatus = iota
	StepWarning
	StepFatal
)

func (s StepStatus) String() string {
	switch s {
	case StepOk:
		return "ok"
	case StepWarning:
		return "warning"
	case StepFatal:
		return "fatal"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StepResult carries the outcome of a single named operation. Warning
// results are logged and the run continues; Fatal results abort it.
type StepResult struct {
	Step   string
	Status StepStatus
	Err    error
}

func Ok(step string) StepResult {
	return StepResult{Step: step, Status: StepOk}
}

func Warning(step string, err error) StepResult {
	return StepResult{Step: step, Status: StepWarning, Err: err}
}

func Fatal(step string, err error) StepResult {
	return StepResult{Step: step, Status: StepFatal, Err: err}
}

func (r StepResult) IsFatal() bool   { return r.Status == StepFatal }
func (r StepResult) IsWarning() bool { return r.Status == StepWarning }

func (r StepResult) Error() string {
	if r.Err == nil {
		return fmt.Sprintf("%s: %s", r.Step, r.Status)
	}
	return fmt.Sprintf("%s: %s: %v", r.Step, r.Status, r.Err)
}
