package options

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/entrybook/pkg/entry"
)

func parse(t *testing.T, args ...string) *EntryOptions {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	o := &EntryOptions{}
	AddEntryArgs(cmd, o)
	require.NoError(t, cmd.ParseFlags(args))
	return o
}

func TestApplyOnlyChangedFlags(t *testing.T) {
	d := entry.Draft{FirstName: "Ana", LastName: "Ruiz", Rating: 3, Topics: map[string]bool{entry.TopicTech: true}}
	o := parse(t, "--last-name", "", "--email", "a@b.com")

	require.NoError(t, o.Apply(&d))
	assert.Equal(t, "Ana", d.FirstName)
	assert.Empty(t, d.LastName)
	assert.Equal(t, "a@b.com", d.Email)
	assert.Equal(t, entry.Rating(3), d.Rating)
	assert.True(t, d.Topics[entry.TopicTech])
}

func TestApplyParsesTypedFields(t *testing.T) {
	d := entry.NewDraft(time.Now())
	o := parse(t, "--dob", "1990-03-04", "--rating", "5", "--topic", "Health,Education", "--gender", "Female")

	require.NoError(t, o.Apply(&d))
	assert.Equal(t, "1990-03-04", entry.FormatDOB(d.DOB))
	assert.Equal(t, entry.Rating(5), d.Rating)
	assert.Equal(t, []string{"Health", "Education"}, entry.SelectedTopics(d.Topics))
	assert.Equal(t, "Female", d.Gender)
}

func TestApplyRejectsOutOfVocabulary(t *testing.T) {
	for name, args := range map[string][]string{
		"gender":  {"--gender", "Robot"},
		"country": {"--country", "Mars"},
		"rating":  {"--rating", "9"},
		"topic":   {"--topic", "Sports"},
		"dob":     {"--dob", "yesterday"},
	} {
		t.Run(name, func(t *testing.T) {
			d := entry.NewDraft(time.Now())
			assert.Error(t, parse(t, args...).Apply(&d))
		})
	}
}

func TestClearRating(t *testing.T) {
	d := entry.Draft{Rating: 4}
	require.NoError(t, parse(t, "--rating", "").Apply(&d))
	assert.Equal(t, entry.Rating(0), d.Rating)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", Wrap("one two three", 8))
	assert.Equal(t, "a b", Wrap("  a   b  ", 80))
	assert.Equal(t, "abcdefghij\nx", Wrap("abcdefghij x", 5))
}
