package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/list"
)

func addList(topLevel *cobra.Command, env *environment) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List form entries, newest first.",
		Example: `
entrybook list
entrybook list --show-id
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				n := list.List{
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
