package remove

import (
	"context"
	"errors"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner"
)

type Remove struct {
	ID string

	Session *app.Session
	Printer printers.Printer
}

func (n *Remove) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not delete, no session")
	}
	if err := n.Session.OnRequestDelete(ctx, n.ID); err != nil {
		return err
	}
	if err := runner.Report(n.Printer, n.Session.Flush()); err != nil {
		return err
	}
	n.Printer.List(n.Session.View().List)
	return nil
}
