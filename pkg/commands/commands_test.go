package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNewListEditDelete(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--path", dir, "--log-level", "disabled"}

	out, err := run(t, append(base, "new", "--json",
		"--first-name", "Ana", "--email", "a@b.com", "--phone", "(555) 123-4567",
		"--country", "UK", "--topic", "Tech", "--rating", "4")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"Success"`)

	out, err = run(t, append(base, "list", "--json")...)
	require.NoError(t, err)
	var listed struct {
		Entries []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &listed))
	require.Len(t, listed.Entries, 1)
	assert.Equal(t, "Ana", listed.Entries[0].Name)
	assert.Equal(t, "UK", listed.Entries[0].Country)
	id := listed.Entries[0].ID

	out, err = run(t, append(base, "edit", id, "--json", "--last-name", "Ruiz")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"Entry Updated"`)
	assert.Contains(t, out, `"lastName":"Ruiz"`)
	assert.Contains(t, out, `"phone":"5551234567"`)
	assert.Contains(t, out, `"rating":4`)

	out, err = run(t, append(base, "show", id)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Ruiz")
	assert.Contains(t, out, "4 Star(s)")

	out, err = run(t, append(base, "delete", id, "--json")...)
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"Entry Deleted"`)
	assert.Contains(t, out, `{"entries":[]}`)

	_, err = run(t, append(base, "show", id)...)
	require.EqualError(t, err, "Entry Not Found: This entry no longer exists.")
}

func TestNewRejectsInvalidDraft(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "--log-level", "disabled", "new", "--first-name", "Ana", "--email", "nope", "--phone", "5551234567")
	require.EqualError(t, err, "Validation Error: Please enter a valid email address.")
}

func TestNewRejectsUnknownChoice(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--path", dir, "--log-level", "disabled", "new", "--first-name", "Ana", "--gender", "Robot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid gender "Robot"`)
}

func TestJSONErrorOutput(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--path", dir, "--log-level", "disabled", "show", "missing", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"title":"Entry Not Found"`)
}

func TestShowRequiresID(t *testing.T) {
	_, err := run(t, "show")
	require.Error(t, err)
}

func TestVersionShort(t *testing.T) {
	out, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
