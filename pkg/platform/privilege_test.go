// pkg/platform/privilege_test.go

package platform

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/keel/pkg/keel_err"
)

func TestRequireRoot(t *testing.T) {
	iu, err := RequireRoot()

	if os.Geteuid() == 0 {
		require.NoError(t, err)
		assert.Equal(t, 0, iu.EUID)
	} else {
		require.Error(t, err)
		assert.True(t, keel_err.IsPermissionError(err))
		assert.NotZero(t, iu.EUID)
	}

	// SUDO_USER is carried through verbatim when set.
	t.Setenv("SUDO_USER", "dev")
	iu, _ = RequireRoot()
	assert.Equal(t, "dev", iu.SudoUser)
}
