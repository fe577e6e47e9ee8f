// pkg/credentials/htpasswd_test.go

package credentials

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHtpasswdStorePut(t *testing.T) {
	t.Run("creates file with single entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "htpasswd")
		s := NewHtpasswdStore(path)

		require.NoError(t, s.Put("admin", "$2a$10$hashA"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "admin:$2a$10$hashA\n", string(data))
	})

	t.Run("fully replaces prior entry for same principal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "htpasswd")
		s := NewHtpasswdStore(path)

		require.NoError(t, s.Put("admin", "$2a$10$hashA"))
		require.NoError(t, s.Put("admin", "$2a$10$hashB"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		adminLines := 0
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if strings.HasPrefix(line, "admin:") {
				adminLines++
				assert.Equal(t, "admin:$2a$10$hashB", line)
			}
		}
		assert.Equal(t, 1, adminLines)
	})

	t.Run("preserves other principals", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "htpasswd")
		s := NewHtpasswdStore(path)

		require.NoError(t, s.Put("admin", "$2a$10$hashA"))
		require.NoError(t, s.Put("viewer", "$2a$10$hashV"))
		require.NoError(t, s.Put("admin", "$2a$10$hashB"))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "viewer:$2a$10$hashV")
		assert.Contains(t, string(data), "admin:$2a$10$hashB")
		assert.NotContains(t, string(data), "$2a$10$hashA")
	})

	t.Run("tightens permission bits after write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "htpasswd")
		s := NewHtpasswdStore(path)

		require.NoError(t, s.Put("admin", "$2a$10$hashA"))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("rejects malformed principals", func(t *testing.T) {
		s := NewHtpasswdStore(filepath.Join(t.TempDir(), "htpasswd"))
		assert.Error(t, s.Put("", "hash"))
		assert.Error(t, s.Put("ad:min", "hash"))
	})
}
