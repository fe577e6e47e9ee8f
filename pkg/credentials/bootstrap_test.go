// pkg/credentials/bootstrap_test.go

package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keelworks/keel/pkg/crypto"
	"github.com/keelworks/keel/pkg/interaction"
	"github.com/keelworks/keel/pkg/keel_err"
	"github.com/keelworks/keel/pkg/testutil"
)

func TestBootstrapWithSuppliedSecret(t *testing.T) {
	rc := testutil.TestRuntimeContext(t)
	path := filepath.Join(t.TempDir(), "htpasswd")
	store := NewHtpasswdStore(path)

	prompter := &interaction.ScriptedPrompter{Secrets: []string{"operator-chosen-pw"}}

	require.NoError(t, Bootstrap(rc, prompter, store, "admin", "Password"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	require.True(t, strings.HasPrefix(line, "admin:"))

	// Stored credential corresponds exactly to the supplied value.
	hash := strings.TrimPrefix(line, "admin:")
	assert.NoError(t, crypto.ComparePassword(hash, "operator-chosen-pw"))
	assert.Error(t, crypto.ComparePassword(hash, "something-else"))
}

func TestBootstrapGeneratesOnEmptySecret(t *testing.T) {
	rc := testutil.TestRuntimeContext(t)
	path := filepath.Join(t.TempDir(), "htpasswd")
	store := NewHtpasswdStore(path)

	prompter := &interaction.ScriptedPrompter{} // empty secret

	require.NoError(t, Bootstrap(rc, prompter, store, "admin", "Password"))
	require.Len(t, prompter.SecretCalls, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	require.True(t, strings.HasPrefix(line, "admin:"))

	// The stored hash must not verify against the empty string: a
	// replacement was generated.
	hash := strings.TrimPrefix(line, "admin:")
	assert.Error(t, crypto.ComparePassword(hash, ""))
}

func TestBootstrapReplacesAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "htpasswd")
	store := NewHtpasswdStore(path)

	rc1 := testutil.TestRuntimeContext(t)
	require.NoError(t, Bootstrap(rc1, &interaction.ScriptedPrompter{Secrets: []string{"first-pw"}}, store, "admin", "Password"))

	rc2 := testutil.TestRuntimeContext(t)
	require.NoError(t, Bootstrap(rc2, &interaction.ScriptedPrompter{Secrets: []string{"second-pw"}}, store, "admin", "Password"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	adminLines := 0
	var hash string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasPrefix(line, "admin:") {
			adminLines++
			hash = strings.TrimPrefix(line, "admin:")
		}
	}
	require.Equal(t, 1, adminLines)
	assert.NoError(t, crypto.ComparePassword(hash, "second-pw"))
}

func TestBootstrapPromptFailureIsFatal(t *testing.T) {
	rc := testutil.TestRuntimeContext(t)
	store := NewHtpasswdStore(filepath.Join(t.TempDir(), "htpasswd"))

	prompter := &interaction.ScriptedPrompter{SecretErr: cerr.New("no tty")}

	err := Bootstrap(rc, prompter, store, "admin", "Password")
	require.Error(t, err)
	assert.True(t, keel_err.IsCredentialStoreError(err))
}

type failingStore struct{}

func (failingStore) Put(string, string) error { return cerr.New("disk full") }
func (failingStore) Location() string         { return "/dev/full" }

func TestBootstrapWriteFailureIsFatal(t *testing.T) {
	rc := testutil.TestRuntimeContext(t)

	err := Bootstrap(rc, &interaction.ScriptedPrompter{Secrets: []string{"pw"}}, failingStore{}, "admin", "Password")
	require.Error(t, err)
	assert.True(t, keel_err.IsCredentialStoreError(err))
}
