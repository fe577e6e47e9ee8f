// pkg/credentials/bootstrap.go

package credentials

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/keelworks/keel/pkg/crypto"
	"github.com/keelworks/keel/pkg/interaction"
	"github.com/keelworks/keel/pkg/keel_err"
	"github.com/keelworks/keel/pkg/keel_io"
	"github.com/keelworks/keel/pkg/ledger"
)

// Bootstrap obtains or generates the secret for principal and writes it to
// the store. An empty operator-supplied value always triggers generation of
// a random 16-character replacement; the generated value is disclosed to
// the operator exactly once, on the terminal, and never reaches the zap log
// or the ledger. A failed store write aborts the run: the reverse proxy
// must not come up unprotected.
func Bootstrap(rc *keel_io.RuntimeContext, prompter interaction.Prompter, store Store, principal, promptText string) error {
	secret, err := prompter.ReadSecret(promptText)
	if err != nil {
		return keel_err.NewCredentialStoreError(err)
	}

	if secret == "" {
		secret, err = crypto.GeneratePassword(crypto.GeneratedPasswordLength)
		if err != nil {
			return keel_err.NewCredentialStoreError(err)
		}

		// The one sanctioned plaintext disclosure point. Terminal only.
		fmt.Fprintf(os.Stderr, "Generated password for %q: %s\nRecord it now; it will not be shown again.\n",
			principal, secret)
		rc.Report(ledger.Info, fmt.Sprintf("generated replacement credential for %q", principal))
	} else {
		rc.Log.Info("Using operator-supplied credential",
			zap.String("principal", principal),
			zap.String("secret", crypto.Redact(secret)))
	}

	hash, err := crypto.HashPassword(secret)
	if err != nil {
		return keel_err.NewCredentialStoreError(err)
	}

	if err := store.Put(principal, hash); err != nil {
		return keel_err.NewCredentialStoreError(err)
	}

	rc.Report(ledger.Info, fmt.Sprintf("credential for %q written to %s", principal, store.Location()))
	return nil
}
