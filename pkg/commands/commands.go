package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/config"
	"tableflip.dev/entrybook/pkg/di"
)

// environment is shared by every subcommand of one root command.
type environment struct {
	v  *viper.Viper
	co *options.ConfigOptions
}

func New() *cobra.Command {
	env := &environment{v: config.New(), co: &options.ConfigOptions{}}

	cmd := &cobra.Command{
		Use:   "entrybook",
		Short: options.Wrap80("Collect and manage form entries on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddConfigArgs(cmd, env.co, env.v)

	addCommands(cmd, env)
	return cmd
}

func addCommands(topLevel *cobra.Command, env *environment) {
	addNew(topLevel, env)
	addList(topLevel, env)
	addShow(topLevel, env)
	addEdit(topLevel, env)
	addDelete(topLevel, env)
	addWatch(topLevel, env)
	addMCP(topLevel, env)
	addCompletions(topLevel)
	addVersion(topLevel)
}

// withApp builds the application for one command run and tears it down after.
func (e *environment) withApp(cmd *cobra.Command, fn func(context.Context, *di.App) error) error {
	cmd.SilenceUsage = true
	e.co.Apply(e.v)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, cleanup, err := di.InitApp(ctx, e.v)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, a)
}
