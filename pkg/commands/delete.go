package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/remove"
)

func addDelete(topLevel *cobra.Command, env *environment) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a form entry.",
		Example: `
entrybook delete 1714554000000
`,
		Args: io.IDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				n := remove.Remove{
					ID:      io.ID,
					Session: a.Session,
					Printer: printers.New(output.JSON, io.ShowID, cmd.OutOrStdout()),
				}
				return n.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
