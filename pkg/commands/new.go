package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/add"
)

func addNew(topLevel *cobra.Command, env *environment) {
	eo := &options.EntryOptions{}
	i := &options.InteractiveOptions{}
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Submit a new form entry.",
		Example: `
entrybook new --first-name Ana --email a@b.com --phone 5551234567
entrybook new --first-name Ana --email a@b.com --phone 5551234567 --topic Tech --topic Health --rating 4
entrybook new -i
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				n := add.Add{
					Apply:   draftEditor(cmd, eo, i),
					Session: a.Session,
					Printer: printers.New(output.JSON, io.ShowID, cmd.OutOrStdout()),
				}
				return n.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.InteractiveArgs(cmd, i)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
