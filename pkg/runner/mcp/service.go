// Package mcp exposes form entries over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/entrybook/pkg/entry"
	"tableflip.dev/entrybook/pkg/events"
	"tableflip.dev/entrybook/pkg/form"
	"tableflip.dev/entrybook/pkg/store"
)

// Service runs entry operations for MCP tools and resources. Writes go through
// a form controller so they are validated exactly like interactive submits.
type Service struct {
	Store store.Store
	Log   zerolog.Logger
	Clock func() time.Time
}

// EntryDTO is a transport-friendly projection of an entry.
type EntryDTO struct {
	entry.Entry
	Name      string `json:"name"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Fields carries form values for create and update. Nil fields are left as
// they are: defaults for create, stored values for update.
type Fields struct {
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	DOB       *string  `json:"dob"`
	Gender    *string  `json:"gender"`
	Country   *string  `json:"country"`
	Email     *string  `json:"email"`
	Phone     *string  `json:"phone"`
	Feedback  *string  `json:"feedback"`
	Rating    *int     `json:"rating"`
	Topics    []string `json:"topics"`
}

// NotificationError carries the user-facing notification for a failed call.
type NotificationError struct {
	events.Notification
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Description)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// NewService builds a service wrapper over s.
func NewService(s store.Store, log zerolog.Logger) *Service {
	return &Service{Store: s, Log: log.With().Str("component", "mcp").Logger(), Clock: time.Now}
}

func toDTO(e entry.Entry) EntryDTO {
	dto := EntryDTO{Entry: e, Name: e.FullName()}
	if !e.Timestamp.IsZero() {
		dto.Timestamp = e.Timestamp.UTC().Format(time.RFC3339)
	}
	return dto
}

// ListEntries returns every entry in the backend's order.
func (s *Service) ListEntries(ctx context.Context) ([]EntryDTO, error) {
	if s.Store == nil {
		return nil, errors.New("store is not configured")
	}
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, s.fail(err, events.LoadFailed())
	}
	out := make([]EntryDTO, 0, len(all))
	for _, e := range all {
		out = append(out, toDTO(e))
	}
	return out, nil
}

// SearchEntries matches query against name, email and feedback,
// case-insensitively, and returns at most limit results.
func (s *Service) SearchEntries(ctx context.Context, query string, limit int) ([]EntryDTO, error) {
	all, err := s.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if limit <= 0 {
		limit = 20
	}
	out := make([]EntryDTO, 0, limit)
	for _, dto := range all {
		if len(out) == limit {
			break
		}
		hay := strings.ToLower(strings.Join([]string{dto.Name, dto.Email, dto.Feedback}, "\n"))
		if q == "" || strings.Contains(hay, q) {
			out = append(out, dto)
		}
	}
	return out, nil
}

// EntryByID fetches one entry.
func (s *Service) EntryByID(ctx context.Context, id string) (EntryDTO, error) {
	if s.Store == nil {
		return EntryDTO{}, errors.New("store is not configured")
	}
	e, err := s.Store.Get(ctx, id)
	if err != nil {
		return EntryDTO{}, s.fail(err, events.LoadFailed())
	}
	return toDTO(e), nil
}

// CreateEntry validates f on a fresh draft and stores it.
func (s *Service) CreateEntry(ctx context.Context, f Fields) (EntryDTO, error) {
	return s.submit(ctx, nil, f)
}

// UpdateEntry loads the entry, applies f and saves it under the same id.
func (s *Service) UpdateEntry(ctx context.Context, id string, f Fields) (EntryDTO, error) {
	if s.Store == nil {
		return EntryDTO{}, errors.New("store is not configured")
	}
	e, err := s.Store.Get(ctx, id)
	if err != nil {
		return EntryDTO{}, s.fail(err, events.LoadFailed())
	}
	return s.submit(ctx, &e, f)
}

// DeleteEntry removes one entry.
func (s *Service) DeleteEntry(ctx context.Context, id string) error {
	if s.Store == nil {
		return errors.New("store is not configured")
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return s.fail(err, events.DeleteFailed())
	}
	s.Log.Info().Str("id", id).Msg("entry deleted")
	return nil
}

func (s *Service) submit(ctx context.Context, editing *entry.Entry, f Fields) (EntryDTO, error) {
	if s.Store == nil {
		return EntryDTO{}, errors.New("store is not configured")
	}
	c := form.New(s.Store, s.Log, s.Clock)
	defer c.Unmount()

	if dropped := c.Begin(events.OpenForm{Editing: editing}); len(dropped) > 0 {
		s.Log.Warn().Strs("topics", dropped).Msg("stored topics outside the vocabulary were dropped")
	}

	var applyErr error
	if err := c.Update(func(d *entry.Draft) { applyErr = f.apply(d) }); err != nil {
		return EntryDTO{}, err
	}
	if applyErr != nil {
		return EntryDTO{}, applyErr
	}

	done, err := c.Submit(ctx)
	if err != nil {
		return EntryDTO{}, s.fail(err, events.SaveFailed())
	}
	return toDTO(done.Entry), nil
}

// fail maps err to the notification an interactive session would show.
func (s *Service) fail(err error, storage events.Notification) error {
	var verr *entry.ValidationError
	switch {
	case errors.As(err, &verr):
		return &NotificationError{Notification: events.Validation(verr.Reason), Err: err}
	case errors.Is(err, store.ErrNotFound):
		return &NotificationError{Notification: events.NotFound(), Err: err}
	default:
		s.Log.Error().Err(err).Msg("mcp call failed")
		return &NotificationError{Notification: storage, Err: err}
	}
}

func (f Fields) apply(d *entry.Draft) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	if f.Gender != nil && !entry.IsGender(*f.Gender) {
		return fmt.Errorf("unknown gender %q, expected one of %s", *f.Gender, strings.Join(entry.Genders, ", "))
	}
	if f.Country != nil && !entry.IsCountry(*f.Country) {
		return fmt.Errorf("unknown country %q, expected one of %s", *f.Country, strings.Join(entry.Countries, ", "))
	}
	set(&d.FirstName, f.FirstName)
	set(&d.LastName, f.LastName)
	set(&d.Gender, f.Gender)
	set(&d.Country, f.Country)
	set(&d.Email, f.Email)
	set(&d.Phone, f.Phone)
	set(&d.Feedback, f.Feedback)

	if f.DOB != nil {
		t, err := entry.ParseDOB(*f.DOB)
		if err != nil {
			return err
		}
		d.DOB = t
	}
	if f.Rating != nil {
		d.Rating = entry.Rating(*f.Rating)
	}
	if f.Topics != nil {
		topics, dropped := entry.TopicSet(f.Topics)
		if len(dropped) > 0 {
			return fmt.Errorf("unknown topic %q, expected one of %s", dropped[0], strings.Join(entry.Topics, ", "))
		}
		d.Topics = topics
	}
	return nil
}
