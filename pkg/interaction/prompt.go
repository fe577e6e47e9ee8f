// pkg/interaction/prompt.go

package interaction

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Prompter is the operator-interaction capability injected into every stage
// that needs a decision or a secret. Tests substitute ScriptedPrompter.
type Prompter interface {
	// Confirm asks a yes/no question, returning defaultYes on empty or
	// unparseable input.
	Confirm(prompt string, defaultYes bool) bool
	// ReadSecret reads a line with terminal echo suppressed.
	ReadSecret(prompt string) (string, error)
}

// TerminalPrompter talks to the operator at the console. Prompts go to
// stderr so stdout stays clean; every prompt is also logged for the audit
// trail without the response value for secrets.
type TerminalPrompter struct{}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{}
}

func (p *TerminalPrompter) Confirm(prompt string, defaultYes bool) bool {
	def := "y/N"
	if defaultYes {
		def = "Y/n"
	}
	zap.L().Info("terminal prompt: confirmation requested", zap.String("prompt", prompt))

	fmt.Fprintf(os.Stderr, "%s [%s]: ", prompt, def)

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		zap.L().Warn("Failed to read confirmation input, applying default",
			zap.Bool("default_yes", defaultYes), zap.Error(err))
		return defaultYes
	}

	if answer, ok := NormalizeYesNoInput(input); ok {
		return answer
	}
	zap.L().Debug("Default applied for confirmation", zap.Bool("default_yes", defaultYes))
	return defaultYes
}

func (p *TerminalPrompter) ReadSecret(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", cerr.New("secret prompt failed: no terminal available")
	}

	zap.L().Info("terminal prompt: secret requested", zap.String("prompt", prompt))

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", cerr.Wrap(err, "read secret input")
	}
	return strings.TrimSpace(string(raw)), nil
}

// NormalizeYesNoInput interprets y/yes/n/no (case-insensitive). The second
// return reports whether the input was recognised at all.
func NormalizeYesNoInput(input string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// ScriptedPrompter answers prompts from preloaded values. It backs both
// --non-interactive runs (zero value: decline everything, empty secret) and
// tests.
type ScriptedPrompter struct {
	ConfirmAnswers []bool
	Secrets        []string
	SecretErr      error

	ConfirmCalls []string
	SecretCalls  []string

	confirmIdx int
	secretIdx  int
}

func (p *ScriptedPrompter) Confirm(prompt string, defaultYes bool) bool {
	p.ConfirmCalls = append(p.ConfirmCalls, prompt)
	if p.confirmIdx >= len(p.ConfirmAnswers) {
		return defaultYes
	}
	answer := p.ConfirmAnswers[p.confirmIdx]
	p.confirmIdx++
	return answer
}

func (p *ScriptedPrompter) ReadSecret(prompt string) (string, error) {
	p.SecretCalls = append(p.SecretCalls, prompt)
	if p.SecretErr != nil {
		return "", p.SecretErr
	}
	if p.secretIdx >= len(p.Secrets) {
		return "", nil
	}
	secret := p.Secrets[p.secretIdx]
	p.secretIdx++
	return secret, nil
}
