// pkg/crypto/password.go

package crypto

import (
	"crypto/rand"
	"math/big"
	"strings"

	cerr "github.com/cockroachdb/errors"
)

const (
	lower  = "abcdefghijklmnopqrstuvwxyz"
	upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits = "0123456789"
	// symbols is restricted to characters that survive unquoted in shells,
	// htpasswd lines, env files and YAML.
	symbols = "@%+=_.-"

	// GeneratedPasswordLength is the fixed length of replacement secrets.
	GeneratedPasswordLength = 16
)

// Alphabet returns the full character set generated passwords draw from.
func Alphabet() string {
	return lower + upper + digits + symbols
}

// GeneratePassword creates a random password of the given length with at
// least one character from each class, using crypto/rand throughout.
func GeneratePassword(length int) (string, error) {
	if length < 4 {
		return "", cerr.New("password length must be at least 4")
	}

	all := Alphabet()

	var pw []byte
	for _, group := range []string{lower, upper, digits, symbols} {
		c, err := randomChar(group)
		if err != nil {
			return "", err
		}
		pw = append(pw, c)
	}
	for i := len(pw); i < length; i++ {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		pw = append(pw, c)
	}

	if err := shuffle(pw); err != nil {
		return "", err
	}
	return string(pw), nil
}

// InAlphabet reports whether every character of s belongs to the declared
// generation alphabet.
func InAlphabet(s string) bool {
	all := Alphabet()
	for _, r := range s {
		if !strings.ContainsRune(all, r) {
			return false
		}
	}
	return true
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, cerr.Wrap(err, "draw random character")
	}
	return set[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return cerr.Wrap(err, "shuffle password")
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
