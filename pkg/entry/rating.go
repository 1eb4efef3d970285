package entry

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Rating is the optional experience rating. Zero means unset.
type Rating int

// String renders the rating token, empty when unset.
func (r Rating) String() string {
	if r == 0 {
		return ""
	}
	return strconv.Itoa(int(r))
}

// MarshalJSON encodes an unset rating as "" and a set one as a number.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return []byte(`""`), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

// UnmarshalJSON accepts a number, a numeric string, an empty string or null.
func (r *Rating) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseRating(s)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("entry: rating %s: %w", b, err)
	}
	*r = Rating(n)
	return nil
}

// ParseRating parses a rating token. The empty string is an unset rating.
func ParseRating(s string) (Rating, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("entry: rating %q: %w", s, err)
	}
	return Rating(n), nil
}
