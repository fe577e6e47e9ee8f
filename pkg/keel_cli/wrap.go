// pkg/keel_cli/wrap.go

package keel_cli

import (
	"github.com/spf13/cobra"

	"github.com/keelworks/keel/pkg/keel_io"
)

// Wrap adapts a RuntimeContext-taking handler to a cobra RunE, adding panic
// recovery, the run ledger, and End() finalization that flushes the ledger
// before the process exits.
func Wrap(fn func(rc *keel_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		rc, ctxErr := keel_io.NewContext(cmd.Context(), cmd.Name(), ".")
		if ctxErr != nil {
			return ctxErr
		}
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		err = fn(rc, cmd, args)
		return err
	}
}
