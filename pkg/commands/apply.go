package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/wizard"
)

// draftEditor applies the field flags and, when asked, runs the wizard with
// the result as defaults.
func draftEditor(cmd *cobra.Command, eo *options.EntryOptions, i *options.InteractiveOptions) func(*entry.Draft) error {
	return func(d *entry.Draft) error {
		if err := eo.Apply(d); err != nil {
			return err
		}
		if !i.Interactive {
			return nil
		}
		w := wizard.Wizard{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		return w.Fill(d)
	}
}
