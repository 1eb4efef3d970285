package entry

import (
	"fmt"
	"strings"
)

// Row is a labelled value shown on the detail view.
type Row struct {
	Label string
	Value string
}

// FullName joins first and last name.
func (e Entry) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// DetailRows returns the labelled rows of the detail view in display order.
func (e Entry) DetailRows() []Row {
	return []Row{
		{Label: "Date of Birth", Value: DisplayDOB(e.DOB)},
		{Label: "Gender", Value: e.Gender},
		{Label: "Country", Value: e.Country},
		{Label: "Email", Value: e.Email},
		{Label: "Phone", Value: e.Phone},
		{Label: "Rating", Value: fmt.Sprintf("%s Star(s)", e.Rating)},
		{Label: "Feedback", Value: e.Feedback},
		{Label: "Topics", Value: strings.Join(e.Topics, ", ")},
	}
}
