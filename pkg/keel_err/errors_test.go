// pkg/keel_err/errors_test.go

package keel_err

import (
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestClassificationSurvivesWrapping(t *testing.T) {
	base := NewPackageOperationError(cerr.New("dpkg interrupted"), "apt-get install")
	wrapped := cerr.Wrap(cerr.Wrap(base, "installing docker"), "stage install")

	assert.True(t, IsPackageOperationError(wrapped))
	assert.False(t, IsPermissionError(wrapped))
	assert.False(t, IsVerificationError(wrapped))
}

func TestClassesAreDisjoint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"permission", NewPermissionError("not root"), IsPermissionError},
		{"probe execution", NewProbeExecutionError(cerr.New("boom"), "docker"), IsProbeExecutionError},
		{"package operation", NewPackageOperationError(cerr.New("boom"), "update"), IsPackageOperationError},
		{"verification", NewVerificationError("docker"), IsVerificationError},
		{"credential store", NewCredentialStoreError(cerr.New("boom")), IsCredentialStoreError},
		{"preflight", NewPreflightError("missing apt-get"), IsPreflightError},
	}

	predicates := []func(error) bool{
		IsPermissionError, IsProbeExecutionError, IsPackageOperationError,
		IsVerificationError, IsCredentialStoreError, IsPreflightError,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches := 0
			for _, p := range predicates {
				if p(tt.err) {
					matches++
				}
			}
			assert.Equal(t, 1, matches)
			assert.True(t, tt.is(tt.err))
		})
	}
}

func TestExpectedUserError(t *testing.T) {
	err := NewUserError(cerr.New("operator declined"))
	assert.True(t, IsExpectedUserError(err))
	assert.False(t, IsExpectedUserError(cerr.New("plain failure")))
}

func TestStepResult(t *testing.T) {
	ok := Ok("remove legacy packages")
	assert.False(t, ok.IsWarning())
	assert.False(t, ok.IsFatal())

	warn := Warning("remove legacy packages", cerr.New("held package"))
	assert.True(t, warn.IsWarning())
	assert.Contains(t, warn.Error(), "held package")

	fatal := Fatal("apt-get update", cerr.New("mirror down"))
	assert.True(t, fatal.IsFatal())
	assert.Equal(t, "fatal", fatal.Status.String())
}
