package options

import (
	"errors"

	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each entry.")
}

// IDArg is a cobra.PositionalArgs that takes the entry id from the single
// positional argument.
func (o *IDOptions) IDArg(_ *cobra.Command, args []string) error {
	switch len(args) {
	case 0:
		return errors.New("an entry id is required")
	case 1:
		o.ID = args[0]
		return nil
	default:
		return errors.New("expected exactly one entry id")
	}
}
