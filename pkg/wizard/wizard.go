// Package wizard walks a user through every form field on the terminal.
package wizard

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/entrybook/pkg/entry"
)

const (
	noneChoice = "(none)"
	doneChoice = "Done"
)

// Wizard prompts for each field of a draft, offering the current value as the
// default.
type Wizard struct {
	In  io.Reader
	Out io.Writer
}

var textTemplates = &promptui.PromptTemplates{
	Prompt:  "{{ . }}: ",
	Valid:   "{{ . | green }}: ",
	Invalid: "{{ . | red }}: ",
	Success: "{{ . | bold }}: ",
}

// Fill prompts for every field and writes the answers into d. Rules that the
// submit will enforce are checked while typing so mistakes show up early.
func (w *Wizard) Fill(d *entry.Draft) error {
	var err error
	if d.FirstName, err = w.text("First name", d.FirstName, required); err != nil {
		return err
	}
	if d.LastName, err = w.text("Last name", d.LastName, nil); err != nil {
		return err
	}

	dob, err := w.text("Date of birth (YYYY-MM-DD)", entry.FormatDOB(d.DOB), func(s string) error {
		_, err := entry.ParseDOB(s)
		return err
	})
	if err != nil {
		return err
	}
	if d.DOB, err = entry.ParseDOB(dob); err != nil {
		return err
	}

	if d.Gender, err = w.choose("Gender", entry.Genders, d.Gender); err != nil {
		return err
	}
	if d.Country, err = w.choose("Country", entry.Countries, d.Country); err != nil {
		return err
	}
	if d.Email, err = w.text("Email", d.Email, required); err != nil {
		return err
	}
	if d.Phone, err = w.text("Phone", d.Phone, phone); err != nil {
		return err
	}
	if d.Feedback, err = w.text("Feedback", d.Feedback, nil); err != nil {
		return err
	}

	ratings := make([]string, 0, len(entry.RatingChoices))
	for _, r := range entry.RatingChoices {
		ratings = append(ratings, r.String())
	}
	rating, err := w.choose("Rating", ratings, d.Rating.String())
	if err != nil {
		return err
	}
	if d.Rating, err = entry.ParseRating(rating); err != nil {
		return err
	}

	return w.topics(d)
}

func (w *Wizard) text(label, def string, validate promptui.ValidateFunc) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Templates: textTemplates,
		Validate:  validate,
		Stdin:     w.stdin(),
		Stdout:    w.stdout(),
	}
	out, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("wizard: %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(out), nil
}

// choose offers choices plus a leading "(none)" and returns "" for it.
func (w *Wizard) choose(label string, choices []string, current string) (string, error) {
	items := Choices(choices)
	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		CursorPos: cursor(items, current),
		HideHelp:  true,
		Stdin:     w.stdin(),
		Stdout:    w.stdout(),
	}
	_, picked, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("wizard: %s: %w", strings.ToLower(label), err)
	}
	if picked == noneChoice {
		return "", nil
	}
	return picked, nil
}

// topics toggles tags until the user picks Done.
func (w *Wizard) topics(d *entry.Draft) error {
	pos := 0
	for {
		items := TopicItems(d.Topics)
		prompt := promptui.Select{
			Label:     "Topics (select to toggle)",
			Items:     items,
			CursorPos: pos,
			HideHelp:  true,
			Stdin:     w.stdin(),
			Stdout:    w.stdout(),
		}
		i, _, err := prompt.Run()
		if err != nil {
			return fmt.Errorf("wizard: topics: %w", err)
		}
		if i >= len(entry.Topics) {
			return nil
		}
		d.ToggleTopic(entry.Topics[i])
		pos = i
	}
}

// Choices prepends the "(none)" choice.
func Choices(choices []string) []string {
	return append([]string{noneChoice}, choices...)
}

// TopicItems renders the topic toggles followed by Done.
func TopicItems(selected map[string]bool) []string {
	items := make([]string, 0, len(entry.Topics)+1)
	for _, t := range entry.Topics {
		mark := " "
		if selected[t] {
			mark = "x"
		}
		items = append(items, fmt.Sprintf("[%s] %s", mark, t))
	}
	return append(items, doneChoice)
}

func cursor(items []string, current string) int {
	for i, it := range items {
		if it == current {
			return i
		}
	}
	return 0
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func phone(s string) error {
	if n := len(entry.DigitsOnly(s)); n != 10 {
		return fmt.Errorf("%d of 10 digits", n)
	}
	return nil
}

func (w *Wizard) stdin() io.ReadCloser {
	if w.In == nil {
		return nil
	}
	return io.NopCloser(w.In)
}

func (w *Wizard) stdout() io.WriteCloser {
	if w.Out == nil {
		return nil
	}
	return nopCloser{w.Out}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
