// pkg/testutil/fake_runner.go

package testutil

import (
	"context"
	"os/exec"
	"strings"
	"sync"

	"github.com/keelworks/keel/pkg/execute"
)

// FakeRunner is a recording execute.Runner for tests. Tool presence,
// version output, and per-command failures are scripted; every call is
// recorded so tests can assert on exactly which system mutations would
// have happened.
type FakeRunner struct {
	mu sync.Mutex

	// Present maps tool name to PATH visibility.
	Present map[string]bool
	// VersionOutput maps tool name to its version command output.
	VersionOutput map[string]string
	// FailOn maps a command-line prefix (e.g. "apt-get update") to the
	// error Run returns for it.
	FailOn map[string]error
	// OnInstall, when set, runs after a successful "apt-get install" so a
	// test can flip Present for the freshly installed tool.
	OnInstall func(pkgs []string)

	Calls         []string
	LookPathCalls []string
}

func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Present:       make(map[string]bool),
		VersionOutput: make(map[string]string),
		FailOn:        make(map[string]error),
	}
}

func (f *FakeRunner) Run(ctx context.Context, opts execute.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmdline := strings.TrimSpace(opts.Command + " " + strings.Join(opts.Args, " "))
	f.Calls = append(f.Calls, cmdline)

	for prefix, err := range f.FailOn {
		if strings.HasPrefix(cmdline, prefix) {
			return "", err
		}
	}

	if opts.Command == "apt-get" && len(opts.Args) > 0 && opts.Args[0] == "install" && f.OnInstall != nil {
		f.OnInstall(opts.Args[2:])
	}

	if out, ok := f.VersionOutput[opts.Command]; ok {
		return out, nil
	}
	return "", nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LookPathCalls = append(f.LookPathCalls, name)
	if f.Present[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// CallsWithPrefix returns recorded command lines starting with prefix.
func (f *FakeRunner) CallsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// MutationCalls counts package-manager and group mutations, the operations
// the idempotence property requires to be zero on a second run.
func (f *FakeRunner) MutationCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.Calls {
		if strings.HasPrefix(c, "apt-get") || strings.HasPrefix(c, "usermod") {
			n++
		}
	}
	return n
}
