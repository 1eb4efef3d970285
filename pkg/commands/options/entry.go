package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/entrybook/pkg/entry"
)

// EntryOptions holds the form fields given as flags.
type EntryOptions struct {
	FirstName string
	LastName  string
	DOB       string
	Gender    string
	Country   string
	Email     string
	Phone     string
	Feedback  string
	Rating    string
	Topics    []string

	flags *pflag.FlagSet
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	o.flags = cmd.Flags()
	cmd.Flags().StringVar(&o.FirstName, "first-name", "", "First name. Required.")
	cmd.Flags().StringVar(&o.LastName, "last-name", "", "Last name.")
	cmd.Flags().StringVar(&o.DOB, "dob", "",
		`Date of birth, example: --dob="1990-03-04". Defaults to today for new entries.`)
	cmd.Flags().StringVar(&o.Gender, "gender", "",
		fmt.Sprintf("Gender, one of %s.", strings.Join(entry.Genders, ", ")))
	cmd.Flags().StringVar(&o.Country, "country", "",
		fmt.Sprintf("Country, one of %s.", strings.Join(entry.Countries, ", ")))
	cmd.Flags().StringVar(&o.Email, "email", "", "Email address. Required.")
	cmd.Flags().StringVar(&o.Phone, "phone", "", "Ten digit phone number. Required.")
	cmd.Flags().StringVar(&o.Feedback, "feedback", "", "Free text feedback.")
	cmd.Flags().StringVar(&o.Rating, "rating", "", "Rating from 1 to 5, empty to clear.")
	cmd.Flags().StringSliceVar(&o.Topics, "topic", nil,
		fmt.Sprintf("Topic of interest, repeatable. One of %s.", strings.Join(entry.Topics, ", ")))

	_ = cmd.RegisterFlagCompletionFunc("gender", fixedCompletions(entry.Genders))
	_ = cmd.RegisterFlagCompletionFunc("country", fixedCompletions(entry.Countries))
	_ = cmd.RegisterFlagCompletionFunc("topic", fixedCompletions(entry.Topics))
}

func fixedCompletions(choices []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return choices, cobra.ShellCompDirectiveNoFileComp
	}
}

func (o *EntryOptions) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// Apply copies every flag that was set onto d. Unset flags leave d alone, so
// the same options serve new entries and edits.
func (o *EntryOptions) Apply(d *entry.Draft) error {
	set := func(name string, dst *string, v string) {
		if o.changed(name) {
			*dst = v
		}
	}
	set("first-name", &d.FirstName, o.FirstName)
	set("last-name", &d.LastName, o.LastName)
	set("email", &d.Email, o.Email)
	set("phone", &d.Phone, o.Phone)
	set("feedback", &d.Feedback, o.Feedback)

	if o.changed("dob") {
		t, err := entry.ParseDOB(o.DOB)
		if err != nil {
			return err
		}
		d.DOB = t
	}
	if o.changed("gender") {
		if !entry.IsGender(o.Gender) {
			return fmt.Errorf("invalid gender %q, one of %s", o.Gender, strings.Join(entry.Genders, ", "))
		}
		d.Gender = o.Gender
	}
	if o.changed("country") {
		if !entry.IsCountry(o.Country) {
			return fmt.Errorf("invalid country %q, one of %s", o.Country, strings.Join(entry.Countries, ", "))
		}
		d.Country = o.Country
	}
	if o.changed("rating") {
		r, err := entry.ParseRating(o.Rating)
		if err != nil {
			return err
		}
		if r != 0 && (r < entry.RatingChoices[0] || r > entry.RatingChoices[len(entry.RatingChoices)-1]) {
			return fmt.Errorf("invalid rating %d, expected 1 to 5", r)
		}
		d.Rating = r
	}
	if o.changed("topic") {
		topics, dropped := entry.TopicSet(o.Topics)
		if len(dropped) > 0 {
			return fmt.Errorf("invalid topic %q, one of %s", dropped[0], strings.Join(entry.Topics, ", "))
		}
		d.Topics = topics
	}
	return nil
}
