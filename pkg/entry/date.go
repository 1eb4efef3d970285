package entry

import (
	"fmt"
	"strings"
	"time"
)

const (
	// LayoutDOB is the storage format for dates of birth. It never changes for
	// the lifetime of a store so old and new entries render the same way.
	LayoutDOB = "2006-01-02"

	// layoutLegacy is the en-US locale date string older revisions wrote.
	layoutLegacy = "1/2/2006"
)

// FormatDOB converts a picker date into the storage string. The zero time
// maps to the empty string.
func FormatDOB(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutDOB)
}

// ParseDOB parses a stored date of birth. It accepts the storage layout and
// the legacy locale layout. The empty string parses to the zero time.
func ParseDOB(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{LayoutDOB, layoutLegacy} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("entry: unrecognised date %q", v)
}

// DisplayDOB renders a stored date of birth in the storage layout, so legacy
// values look like new ones. Unparseable values are shown as stored.
func DisplayDOB(v string) string {
	t, err := ParseDOB(v)
	if err != nil {
		return v
	}
	return FormatDOB(t)
}
