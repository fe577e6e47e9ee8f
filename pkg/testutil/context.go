// pkg/testutil/context.go

package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keelworks/keel/pkg/keel_io"
)

// TestRuntimeContext builds a RuntimeContext whose ledger lives in a
// per-test temp directory.
func TestRuntimeContext(t *testing.T) *keel_io.RuntimeContext {
	t.Helper()

	rc, err := keel_io.NewContext(context.Background(), "test", t.TempDir())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = rc.Ledger.Close()
	})
	return rc
}
