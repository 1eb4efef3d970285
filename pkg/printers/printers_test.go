package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/projection"
)

func init() {
	color.NoColor = true
}

func TestPrettyList(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{ShowID: true, Out: &buf}
	pp.List(projection.ListView{Items: []projection.Summary{{ID: "42", Name: "Ana Ruiz", Country: "Spain", Gender: "Female"}}})

	out := buf.String()
	for _, want := range []string{"Entries - 1 entry", "42", "Ana Ruiz", "Spain", "Female"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyEmptyList(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.List(projection.ListView{Empty: projection.EmptyListMessage})
	if !strings.Contains(buf.String(), projection.EmptyListMessage) {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

func TestPrettyDetail(t *testing.T) {
	e := entry.Entry{ID: "1", FirstName: "Ana", LastName: "Ruiz", Rating: 3, Topics: []string{"Tech", "Health"}}
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Detail(projection.DetailView{ID: "1", Entry: &e, Rows: e.DetailRows()})

	out := buf.String()
	for _, want := range []string{"Ana Ruiz", "3 Star(s)", "Tech, Health"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyNotification(t *testing.T) {
	var buf bytes.Buffer
	pp := &PrettyPrint{Out: &buf}
	pp.Notification(events.Deleted())
	if got, want := buf.String(), "Entry Deleted: The form entry has been successfully removed.\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONPrint(t *testing.T) {
	var buf bytes.Buffer
	p := New(true, false, &buf)
	p.List(projection.ListView{})
	p.Notification(events.Created())
	p.Event("created", "7")

	want := `{"entries":[]}
{"kind":"success","title":"Success","description":"Form submitted successfully!"}
{"event":"created","id":"7"}
`
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
