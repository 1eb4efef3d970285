package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/projection"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " entry")
	default:
		_, _ = c.Fprintln(pp.out(), " entries")
	}
}

// List prints the list screen, newest first.
func (pp *PrettyPrint) List(v projection.ListView) {
	pp.TitleWithCount("Entries", len(v.Items))
	if len(v.Items) == 0 {
		f := color.New(color.Faint, color.Italic)
		msg := v.Empty
		if msg == "" {
			msg = "none"
		}
		_, _ = f.Fprintf(pp.out(), " %s\n\n", msg)
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	tbl := uitable.New()
	tbl.MaxColWidth = 40
	if pp.ShowID {
		tbl.AddRow("ID", "NAME", "COUNTRY", "GENDER")
	} else {
		tbl.AddRow("NAME", "COUNTRY", "GENDER")
	}
	for _, s := range v.Items {
		if pp.ShowID {
			tbl.AddRow(y.Sprint(s.ID), s.Name, s.Country, s.Gender)
		} else {
			tbl.AddRow(s.Name, s.Country, s.Gender)
		}
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Detail prints one entry's label/value rows.
func (pp *PrettyPrint) Detail(v projection.DetailView) {
	if v.Entry == nil {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	pp.Title(v.Entry.FullName())

	l := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Wrap = true
	tbl.MaxColWidth = 60
	if pp.ShowID {
		tbl.AddRow(l.Sprint("ID"), v.Entry.ID)
	}
	for _, r := range v.Rows {
		tbl.AddRow(l.Sprint(r.Label), r.Value)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Notification prints a toast-style line, green for success and red for errors.
func (pp *PrettyPrint) Notification(n events.Notification) {
	c := color.New(color.FgGreen, color.Bold)
	if n.Kind == events.KindError {
		c = color.New(color.FgRed, color.Bold)
	}
	_, _ = c.Fprint(pp.out(), n.Title)
	if n.Description != "" {
		_, _ = fmt.Fprintf(pp.out(), ": %s", n.Description)
	}
	pp.NewLine()
}

// Event prints one store change as seen by watch.
func (pp *PrettyPrint) Event(kind, id string) {
	k := color.New(color.FgCyan)
	_, _ = k.Fprint(pp.out(), strings.ToUpper(kind))
	if id != "" {
		_, _ = fmt.Fprintf(pp.out(), " %s", id)
	}
	pp.NewLine()
}
