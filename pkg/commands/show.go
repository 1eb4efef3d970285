package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/show"
)

func addShow(topLevel *cobra.Command, env *environment) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one form entry.",
		Example: `
entrybook show 1714554000000
`,
		Args: io.IDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				n := show.Show{
					ID:      io.ID,
					Session: a.Session,
					Printer: printers.New(output.JSON, true, cmd.OutOrStdout()),
				}
				return n.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
