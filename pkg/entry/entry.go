// Package entry defines the form entry record, its editable draft, and the
// rules that decide whether a draft may be persisted.
package entry

import (
	"time"
)

// Entry is a persisted form submission.
type Entry struct {
	ID        string   `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	DOB       string   `json:"dob"`
	Gender    string   `json:"gender"`
	Country   string   `json:"country"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Feedback  string   `json:"feedback"`
	Rating    Rating   `json:"rating"`
	Topics    []string `json:"topics"`

	// Timestamp is assigned by the remote backend on every write. It is not
	// part of the stored document and stays zero for the local backend.
	Timestamp time.Time `json:"-"`
}

// Fixed picker vocabularies.
var (
	Genders       = []string{"Male", "Female", "Other"}
	Countries     = []string{"USA", "India", "UK"}
	RatingChoices = []Rating{1, 2, 3, 4, 5}
)

// Topic vocabulary in display order. Persisted topic sequences always follow
// this order regardless of the order the user toggled them in.
const (
	TopicTech      = "Tech"
	TopicHealth    = "Health"
	TopicEducation = "Education"
)

// Topics is the fixed topic vocabulary.
var Topics = []string{TopicTech, TopicHealth, TopicEducation}

// IsTopic reports whether tag is part of the vocabulary.
func IsTopic(tag string) bool {
	return oneOf(tag, Topics)
}

// IsGender reports whether g is empty or one of Genders.
func IsGender(g string) bool {
	return g == "" || oneOf(g, Genders)
}

// IsCountry reports whether c is empty or one of Countries.
func IsCountry(c string) bool {
	return c == "" || oneOf(c, Countries)
}

func oneOf(v string, choices []string) bool {
	for _, c := range choices {
		if c == v {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := e
	if e.Topics != nil {
		out.Topics = append([]string(nil), e.Topics...)
	}
	return out
}

// Draft is the editable working copy of an entry held by a form session.
type Draft struct {
	FirstName string
	LastName  string
	DOB       time.Time
	Gender    string
	Country   string
	Email     string
	Phone     string
	Feedback  string
	Rating    Rating
	Topics    map[string]bool
}

// NewDraft returns a draft with default field values. The date of birth
// defaults to the given day, matching a date picker opened on today.
func NewDraft(today time.Time) Draft {
	return Draft{
		DOB:    today,
		Topics: emptyTopicSet(),
	}
}

// DraftFrom loads an existing entry into a draft. Every vocabulary tag is
// present in the resulting topic map. Tags stored on the entry that are not in
// the vocabulary are returned as dropped.
func DraftFrom(e Entry) (Draft, []string) {
	dob, err := ParseDOB(e.DOB)
	if err != nil {
		dob = time.Time{}
	}
	topics, dropped := TopicSet(e.Topics)
	return Draft{
		FirstName: e.FirstName,
		LastName:  e.LastName,
		DOB:       dob,
		Gender:    e.Gender,
		Country:   e.Country,
		Email:     e.Email,
		Phone:     e.Phone,
		Feedback:  e.Feedback,
		Rating:    e.Rating,
		Topics:    topics,
	}, dropped
}

// Clone returns a copy of d that shares no topic map with it.
func (d Draft) Clone() Draft {
	out := d
	out.Topics = make(map[string]bool, len(d.Topics))
	for k, v := range d.Topics {
		out.Topics[k] = v
	}
	return out
}

// ToggleTopic flips the selection of tag. It returns false when tag is not in
// the vocabulary.
func (d *Draft) ToggleTopic(tag string) bool {
	if !IsTopic(tag) {
		return false
	}
	if d.Topics == nil {
		d.Topics = emptyTopicSet()
	}
	d.Topics[tag] = !d.Topics[tag]
	return true
}

// SetPhoneInput stores keyboard input for the phone field, keeping digits only
// and at most ten of them.
func (d *Draft) SetPhoneInput(s string) {
	digits := DigitsOnly(s)
	if len(digits) > phoneDigits {
		digits = digits[:phoneDigits]
	}
	d.Phone = digits
}

// SelectedTopics reduces a topic map to the selected tags in vocabulary order.
func SelectedTopics(m map[string]bool) []string {
	out := make([]string, 0, len(Topics))
	for _, t := range Topics {
		if m[t] {
			out = append(out, t)
		}
	}
	return out
}

// TopicSet expands a persisted topic sequence into a map covering the whole
// vocabulary. Unknown tags are discarded and returned.
func TopicSet(selected []string) (map[string]bool, []string) {
	m := emptyTopicSet()
	var dropped []string
	for _, tag := range selected {
		if !IsTopic(tag) {
			dropped = append(dropped, tag)
			continue
		}
		m[tag] = true
	}
	return m, dropped
}

func emptyTopicSet() map[string]bool {
	m := make(map[string]bool, len(Topics))
	for _, t := range Topics {
		m[t] = false
	}
	return m
}
