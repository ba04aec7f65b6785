package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

func TestPreview(t *testing.T) {
	var buf bytes.Buffer
	err := Preview(PreviewData{
		SessionID: "s1",
		Columns:   []string{"name", "<b>"},
		Rows:      []cleaner.Record{{"name": "a&b", "<b>": nil}},
		Total:     10,
	}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "Showing 1 of 10 rows")
	assert.Contains(t, html, "<th scope=\"col\">&lt;b&gt;</th>")
	assert.Contains(t, html, "<td>a&amp;b</td>")
	assert.Contains(t, html, `<td class="null"></td>`)
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("Column 'x' not found.", "", "CLN002").Render(context.Background(), &buf))

	html := buf.String()
	assert.Contains(t, html, "Column &#39;x&#39; not found.")
	assert.Contains(t, html, "Error code: CLN002")
	assert.NotContains(t, html, "alert-action")
}
