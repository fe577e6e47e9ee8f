// pkg/credentials/htpasswd.go

package credentials

import (
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

// Store is the credential store the reverse proxy reads: one
// principal:hashed-secret line per principal. Put fully replaces any prior
// entry for the same principal; there are no partial or append writes.
type Store interface {
	Put(principal, hash string) error
	Location() string
}

// HtpasswdStore writes an htpasswd-format file. The whole file is rewritten
// through a temp file and renamed into place, then its permission bits are
// tightened to owner/group-readable immediately.
type HtpasswdStore struct {
	Path string
}

func NewHtpasswdStore(path string) *HtpasswdStore {
	return &HtpasswdStore{Path: path}
}

func (s *HtpasswdStore) Location() string { return s.Path }

func (s *HtpasswdStore) Put(principal, hash string) error {
	if principal == "" {
		return cerr.New("principal must not be empty")
	}
	if strings.Contains(principal, ":") {
		return cerr.Newf("principal %q must not contain ':'", principal)
	}

	existing, err := os.ReadFile(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return cerr.Wrapf(err, "read credential store %s", s.Path)
	}

	var lines []string
	for _, line := range strings.Split(string(existing), "\n") {
		if line == "" || strings.HasPrefix(line, principal+":") {
			continue
		}
		lines = append(lines, line)
	}
	lines = append(lines, principal+":"+hash)

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return cerr.Wrapf(err, "create credential store directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".htpasswd-*")
	if err != nil {
		return cerr.Wrap(err, "create temp credential file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		_ = tmp.Close()
		return cerr.Wrap(err, "write credential entries")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return cerr.Wrap(err, "sync credential file")
	}
	if err := tmp.Close(); err != nil {
		return cerr.Wrap(err, "close credential file")
	}

	if err := os.Rename(tmpPath, s.Path); err != nil {
		return cerr.Wrapf(err, "replace credential store %s", s.Path)
	}
	if err := os.Chmod(s.Path, 0o640); err != nil {
		return cerr.Wrapf(err, "tighten credential store permissions on %s", s.Path)
	}
	return nil
}
