package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/entrybook/pkg/commands/options"
	"tableflip.dev/entrybook/pkg/di"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner/watch"
	"tableflip.dev/entrybook/pkg/store"
)

func addWatch(topLevel *cobra.Command, env *environment) {
	io := &options.IDOptions{}
	output := &options.OutputOptions{}
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the entry list as it changes.",
		Long: options.Wrap80("Prints the list and reprints it whenever it changes. The remote " +
			"backend pushes changes as they happen. The local backend is re-read every --interval. " +
			"With metrics.enabled set, store metrics are served on metrics.addr at /metrics."),
		Example: `
entrybook watch
entrybook watch --backend remote --dsn postgres://localhost/entrybook
ENTRYBOOK_METRICS_ENABLED=true entrybook watch --interval 5s
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := env.withApp(cmd, func(ctx context.Context, a *di.App) error {
				every := interval
				if !cmd.Flags().Changed("interval") && a.Config.Backend == store.BackendRemote {
					every = 0
				}
				n := watch.Watch{
					Interval:    every,
					MetricsAddr: a.Config.Metrics.Addr,
					Registry:    a.Registry,
					Store:       a.Store,
					Session:     a.Session,
					Printer:     printers.New(output.JSON, io.ShowID, cmd.OutOrStdout()),
					Log:         a.Log,
				}
				return n.Do(ctx)
			})
			return output.HandleError(err)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second,
		"How often to re-read the store. Defaults to off for the remote backend.")
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
