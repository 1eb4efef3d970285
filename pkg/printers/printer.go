package printers

import (
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/projection"
)

// Printer renders view models for the CLI.
type Printer interface {
	List(projection.ListView)
	Detail(projection.DetailView)
	Notification(events.Notification)
	Event(kind, id string)
}

// New returns a JSON printer when asJSON is set, the pretty one otherwise.
func New(asJSON, showID bool, out io.Writer) Printer {
	if asJSON {
		return &JSONPrint{Out: out}
	}
	return &PrettyPrint{ShowID: showID, Out: out}
}

// JSONPrint writes one JSON document per line.
type JSONPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
}

type jsonNotification struct {
	Kind        events.Kind `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
}

type jsonEvent struct {
	Event string `json:"event"`
	ID    string `json:"id,omitempty"`
}

func (jp *JSONPrint) write(v any) {
	out := jp.Out
	if out == nil {
		out = color.Output
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = out.Write(append(b, '\n'))
}

func (jp *JSONPrint) List(v projection.ListView) {
	items := v.Items
	if items == nil {
		items = []projection.Summary{}
	}
	jp.write(map[string]any{"entries": items})
}

func (jp *JSONPrint) Detail(v projection.DetailView) {
	if v.Entry == nil {
		jp.write(map[string]any{"entry": nil})
		return
	}
	jp.write(map[string]*entry.Entry{"entry": v.Entry})
}

func (jp *JSONPrint) Notification(n events.Notification) {
	jp.write(jsonNotification{Kind: n.Kind, Title: n.Title, Description: n.Description})
}

func (jp *JSONPrint) Event(kind, id string) {
	jp.write(jsonEvent{Event: kind, ID: id})
}
