// pkg/platform/privilege.go

package platform

import (
	"os"
	"os/user"

	"github.com/keelworks/keel/pkg/keel_err"
)

// InvokingUser identifies who ran the bootstrapper, including the original
// account behind sudo. The docker group-membership step needs the latter.
type InvokingUser struct {
	Username string
	SudoUser string
	EUID     int
}

// RequireRoot verifies the process can mutate system package state. Called
// once, before any mutating stage; failure halts the run with nothing
// touched.
func RequireRoot() (InvokingUser, error) {
	euid := os.Geteuid()

	iu := InvokingUser{
		SudoUser: os.Getenv("SUDO_USER"),
		EUID:     euid,
	}
	if u, err := user.Current(); err == nil {
		iu.Username = u.Username
	}

	if euid != 0 {
		return iu, keel_err.NewPermissionError(
			"keel must run with elevated privileges to manage system packages")
	}
	return iu, nil
}
