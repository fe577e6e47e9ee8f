// pkg/keel_err/errors.go

package keel_err

import (
	"errors"

	cerr "github.com/cockroachdb/errors"
)

// Package keel_err classifies every failure the bootstrapper can hit.
// Fatal classes halt the run; auxiliary failures travel as StepResult
// warnings (see step.go), never as errors.

// Marker errors for each fatal class. Constructors Mark their result so
// callers classify with the Is* predicates regardless of wrapping depth.
var (
	ErrPermission       = errors.New("insufficient privileges")
	ErrProbeExecution   = errors.New("probe execution failed")
	ErrPackageOperation = errors.New("package operation failed")
	ErrVerification     = errors.New("post-install verification failed")
	ErrCredentialStore  = errors.New("credential store write failed")
	ErrPreflight        = errors.New("preflight tooling check failed")
	ErrUser             = errors.New("expected user error")
)

// NewPermissionError reports a missing-elevation condition before any
// mutating stage has run.
func NewPermissionError(msg string) error {
	return cerr.WithHint(cerr.Mark(cerr.New(msg), ErrPermission), "re-run with sudo")
}

// NewProbeExecutionError wraps a probe that could not execute at all, as
// opposed to a tool that is simply absent.
func NewProbeExecutionError(err error, tool string) error {
	return cerr.Mark(cerr.Wrapf(err, "probe for %s could not execute", tool), ErrProbeExecution)
}

// NewPackageOperationError wraps an index-refresh or install failure.
// System package state is undefined after these, so they always abort.
func NewPackageOperationError(err error, op string) error {
	return cerr.Mark(cerr.Wrapf(err, "package operation %q failed", op), ErrPackageOperation)
}

// NewVerificationError reports a tool still absent after an install attempt.
func NewVerificationError(target string) error {
	return cerr.Mark(cerr.Newf("%s: post-install verification failed", target), ErrVerification)
}

// NewCredentialStoreError wraps a failed credential store write. The reverse
// proxy must never come up without valid credentials, so this aborts the run.
func NewCredentialStoreError(err error) error {
	return cerr.Mark(cerr.Wrap(err, "credential store write failed"), ErrCredentialStore)
}

// NewPreflightError reports the bootstrapper's own tooling as unusable.
func NewPreflightError(msg string) error {
	return cerr.Mark(cerr.New(msg), ErrPreflight)
}

// NewUserError marks an error as an expected operator outcome (declined
// action, interrupted prompt) rather than a system failure.
func NewUserError(err error) error {
	return cerr.Mark(err, ErrUser)
}

func IsPermissionError(err error) bool       { return cerr.Is(err, ErrPermission) }
func IsProbeExecutionError(err error) bool   { return cerr.Is(err, ErrProbeExecution) }
func IsPackageOperationError(err error) bool { return cerr.Is(err, ErrPackageOperation) }
func IsVerificationError(err error) bool     { return cerr.Is(err, ErrVerification) }
func IsCredentialStoreError(err error) bool  { return cerr.Is(err, ErrCredentialStore) }
func IsPreflightError(err error) bool        { return cerr.Is(err, ErrPreflight) }

// IsExpectedUserError reports whether err represents a normal operator
// outcome that should not surface as a non-zero exit.
func IsExpectedUserError(err error) bool { return cerr.Is(err, ErrUser) }
