// pkg/ledger/ledger.go

package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	cerr "github.com/cockroachdb/errors"
)

// Package ledger writes the append-only audit trail of one provisioning run.
// Every entry is flushed to disk before Record returns so a crash mid-run
// never loses the trailing entries that explain it.

// Severity levels mirror the console log levels so the two surfaces agree.
type Severity string

const (
	Info  Severity = "INFO"
	Warn  Severity = "WARN"
	Fatal Severity = "FATAL"
)

const (
	timestampFormat = "2006-01-02 15:04:05"
	fileFormat      = "setup_20060102_150405.log"
)

// Ledger is an append-only, per-invocation log file. Entries are never
// mutated after append; ordering is the sole index.
type Ledger struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Open creates a fresh ledger file named setup_<YYYYMMDD_HHMMSS>.log in dir
// and writes a header entry carrying the run identifier.
func Open(dir, runID string) (*Ledger, error) {
	path := filepath.Join(dir, time.Now().Format(fileFormat))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_EXCL, 0o640)
	if err != nil {
		return nil, cerr.Wrapf(err, "open ledger %s", path)
	}

	l := &Ledger{f: f, path: path}
	if err := l.Record(Info, fmt.Sprintf("run started (id=%s)", runID)); err != nil {
		_ = f.Close()
		return nil, err
	}
	return l, nil
}

// Record appends one timestamped entry and fsyncs it. Safe on a nil
// receiver so callers in tests can run without a backing file.
func (l *Ledger) Record(sev Severity, msg string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format(timestampFormat), sev, msg)
	if _, err := l.f.WriteString(line); err != nil {
		return cerr.Wrap(err, "append ledger entry")
	}
	if err := l.f.Sync(); err != nil {
		return cerr.Wrap(err, "sync ledger")
	}
	return nil
}

// Path returns the ledger file location for operator reference.
func (l *Ledger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close releases the file handle. The final outcome entry must already
// have been recorded by the caller.
func (l *Ledger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
