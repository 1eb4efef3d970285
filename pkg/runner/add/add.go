package add

import (
	"context"
	"errors"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner"
)

type Add struct {
	// Apply fills the fresh draft from user input.
	Apply func(*entry.Draft) error

	Session *app.Session
	Printer printers.Printer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not add, no session")
	}
	if err := n.Session.OpenNewForm(ctx); err != nil {
		return err
	}

	d := n.Session.View().Form.Draft
	if n.Apply != nil {
		if err := n.Apply(&d); err != nil {
			return err
		}
	}
	if err := n.Session.OnSubmitDraft(ctx, d); err != nil {
		return err
	}
	if err := runner.Report(n.Printer, n.Session.Flush()); err != nil {
		return err
	}
	n.Printer.List(n.Session.View().List)
	return nil
}
