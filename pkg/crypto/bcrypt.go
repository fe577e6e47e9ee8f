// pkg/crypto/bcrypt.go

package crypto

import (
	cerr "github.com/cockroachdb/errors"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes the given password using bcrypt at the default cost.
// The output is the encoding the reverse proxy's basic-auth store consumes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", cerr.Wrap(err, "bcrypt hash failed")
	}
	return string(hash), nil
}

// ComparePassword checks if password matches the bcrypt hash.
func ComparePassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
