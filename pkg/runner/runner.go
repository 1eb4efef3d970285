// Package runner holds the shared reporting step for the CLI runners in its
// subpackages.
package runner

import (
	"fmt"

	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/printers"
)

// NotificationError is returned when a session action ended in an error
// notification.
type NotificationError struct {
	events.Notification
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Description)
}

// Report prints every notification in msgs and returns the last error
// notification, if any. Directives and refresh hints are skipped.
func Report(p printers.Printer, msgs []events.Msg) error {
	var failed *NotificationError
	for _, m := range msgs {
		n, ok := m.(events.Notification)
		if !ok {
			continue
		}
		p.Notification(n)
		if n.Kind == events.KindError {
			failed = &NotificationError{Notification: n}
		}
	}
	if failed != nil {
		return failed
	}
	return nil
}
