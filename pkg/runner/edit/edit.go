package edit

import (
	"context"
	"errors"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner"
)

type Edit struct {
	ID string
	// Apply changes the draft loaded from the stored entry.
	Apply func(*entry.Draft) error

	Session *app.Session
	Printer printers.Printer
}

func (n *Edit) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not edit, no session")
	}
	if err := n.Session.OnRequestEdit(ctx, n.ID); err != nil {
		return err
	}
	if err := runner.Report(n.Printer, n.Session.Flush()); err != nil {
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
	if v := n.Session.View(); v.Screen == events.ScreenDetail {
		n.Printer.Detail(v.Detail)
	}
	return nil
}
