package entry

import (
	"fmt"
	"regexp"
)

// Field names reported by ValidationError.
const (
	FieldFirstName = "firstName"
	FieldEmail     = "email"
	FieldPhone     = "phone"
)

// User-facing validation reasons.
const (
	ReasonRequired     = "First name, valid email and phone are required."
	ReasonInvalidEmail = "Please enter a valid email address."
	ReasonPhoneDigits  = "Phone number must be 10 digits."
)

const phoneDigits = 10

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a draft and returns the normalized entry ready for
// persistence. Rules run in order and the first failure wins:
//
//  1. first name is non-empty
//  2. email is non-empty and looks like local@domain.tld
//  3. phone has exactly ten digits once non-digits are stripped
//
// Rating and feedback are never checked. The returned entry has no ID.
func Validate(d Draft) (Entry, error) {
	if d.FirstName == "" {
		return Entry{}, &ValidationError{Field: FieldFirstName, Reason: ReasonRequired}
	}
	if d.Email == "" {
		return Entry{}, &ValidationError{Field: FieldEmail, Reason: ReasonRequired}
	}
	if !emailPattern.MatchString(d.Email) {
		return Entry{}, &ValidationError{Field: FieldEmail, Reason: ReasonInvalidEmail}
	}
	phone := DigitsOnly(d.Phone)
	if phone == "" {
		return Entry{}, &ValidationError{Field: FieldPhone, Reason: ReasonRequired}
	}
	if len(phone) != phoneDigits {
		return Entry{}, &ValidationError{Field: FieldPhone, Reason: ReasonPhoneDigits}
	}

	return Entry{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		DOB:       FormatDOB(d.DOB),
		Gender:    d.Gender,
		Country:   d.Country,
		Email:     d.Email,
		Phone:     phone,
		Feedback:  d.Feedback,
		Rating:    d.Rating,
		Topics:    SelectedTopics(d.Topics),
	}, nil
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}
