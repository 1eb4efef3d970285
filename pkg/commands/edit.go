package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command, env *environment) {
	eo := &options.EntryOptions{}
	i := &options.InteractiveOptions{}
	io := &options.IDOptions{}
	output := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing form entry.",
		Long: options.Wrap80("Loads the entry into a form, applies the flags that were given " +
			"and saves it under the same id. Fields without a flag keep their stored value."),
		Example: `
entrybook edit 1714554000000 --last-name Ruiz
entrybook edit 1714554000000 -i
entrybook edit 1714554000000 --topic Education --rating ""
`,
		Args: io.IDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				n := edit.Edit{
					ID:      io.ID,
					Apply:   draftEditor(cmd, eo, i),
					Session: a.Session,
					Printer: printers.New(output.JSON, true, cmd.OutOrStdout()),
				}
				return n.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
