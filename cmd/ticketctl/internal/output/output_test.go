package output

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtiro/tickets/pkg/sdk"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "TABLE": FormatTable, "json": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	id := uuid.MustParse("7f1d2c9e-0000-4000-8000-000000000001")
	event := sdk.Event{ID: id, Name: "Jazz Night", Status: sdk.EventStatusPublished}
	table := func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME")
		fmt.Fprintf(w, "%s\t%s\n", event.ID, event.Name)
	}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatTable, event, table))
		assert.Contains(t, buf.String(), "ID                                    NAME")
		assert.Contains(t, buf.String(), id.String()+"  Jazz Night")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatJSON, event, table))
		assert.Contains(t, buf.String(), `"id": "`+id.String()+`"`)
		assert.Contains(t, buf.String(), `"status": "PUBLISHED"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, FormatYAML, event, table))
		assert.Contains(t, buf.String(), "id: "+id.String())
		assert.Contains(t, buf.String(), "name: Jazz Night")
		assert.Contains(t, buf.String(), "status: PUBLISHED")
	})
}

func TestDashAndTruncate(t *testing.T) {
	assert.Equal(t, "-", Dash("  "))
	assert.Equal(t, "x", Dash("x"))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "abcd...", Truncate("abcdefghij", 7))
}
