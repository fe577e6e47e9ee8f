// pkg/interaction/prompt_test.go

package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeYesNoInput(t *testing.T) {
	tests := []struct {
		input      string
		answer     bool
		recognised bool
	}{
		{"y", true, true},
		{"Y", true, true},
		{"yes", true, true},
		{" YES \n", true, true},
		{"n", false, true},
		{"no", false, true},
		{"", false, false},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		answer, ok := NormalizeYesNoInput(tt.input)
		assert.Equal(t, tt.recognised, ok, "input %q", tt.input)
		if ok {
			assert.Equal(t, tt.answer, answer, "input %q", tt.input)
		}
	}
}

func TestScriptedPrompter(t *testing.T) {
	t.Run("zero value declines and returns empty secrets", func(t *testing.T) {
		p := &ScriptedPrompter{}

		assert.False(t, p.Confirm("Reinstall?", false))
		secret, err := p.ReadSecret("Password")
		assert.NoError(t, err)
		assert.Empty(t, secret)
	})

	t.Run("scripted answers are consumed in order", func(t *testing.T) {
		p := &ScriptedPrompter{
			ConfirmAnswers: []bool{true, false},
			Secrets:        []string{"one", "two"},
		}

		assert.True(t, p.Confirm("a", false))
		assert.False(t, p.Confirm("b", true))
		// Exhausted answers fall back to the default.
		assert.True(t, p.Confirm("c", true))

		s1, _ := p.ReadSecret("x")
		s2, _ := p.ReadSecret("y")
		assert.Equal(t, "one", s1)
		assert.Equal(t, "two", s2)

		assert.Equal(t, []string{"a", "b", "c"}, p.ConfirmCalls)
	})
}
