// pkg/execute/execute_test.go

package execute

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDryRunExecutesNothing(t *testing.T) {
	runner := NewRunner(true)

	out, err := runner.Run(context.Background(), Options{
		Command: "definitely-not-a-real-binary",
		Args:    []string{"--flag"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix echo")
	}
	runner := NewRunner(false)

	out, err := runner.Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"hello"},
		Capture: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)
}

func TestRunWithoutCaptureDiscardsOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix echo")
	}
	runner := NewRunner(false)

	out, err := runner.Run(context.Background(), Options{
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunMissingBinaryFails(t *testing.T) {
	runner := NewRunner(false)

	_, err := runner.Run(context.Background(), Options{
		Command: "definitely-not-a-real-binary",
	})
	assert.Error(t, err)
}

func TestLookPath(t *testing.T) {
	runner := NewRunner(false)

	_, err := runner.LookPath("definitely-not-a-real-binary")
	assert.Error(t, err)
}

func TestSummarize(t *testing.T) {
	out := "line one\n\nline two\nline three\n"
	assert.Equal(t, "line two | line three", Summarize(out, 2))
	assert.Equal(t, "line three", Summarize(out, 1))
	assert.Empty(t, Summarize("", 2))
}
