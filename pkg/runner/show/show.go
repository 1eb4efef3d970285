package show

import (
	"context"
	"errors"

	"tableflip.dev/entrybook/pkg/app"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/printers"
	"tableflip.dev/entrybook/pkg/runner"
)

type Show struct {
	ID string

	Session *app.Session
	Printer printers.Printer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Session == nil {
		return errors.New("can not show, no session")
	}
	if err := n.Session.OpenDetail(ctx, n.ID); err != nil {
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
