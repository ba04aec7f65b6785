// Package templates renders the HTML fragments served to HTMX clients.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

// PreviewData is the first rows of a session's working table.
type PreviewData struct {
	SessionID string
	Columns   []string
	Rows      []cleaner.Record
	Total     int
}

// Preview renders the working table as an HTML table. Null cells render as
// an empty, dimmed cell.
func Preview(d PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.printf(`<div class="preview" id="preview-%s">`, templ.EscapeString(d.SessionID))
		ew.printf(`<p class="preview-count">Showing %d of %d rows</p>`, len(d.Rows), d.Total)
		ew.print(`<table class="preview-table"><thead><tr>`)
		for _, col := range d.Columns {
			ew.printf(`<th scope="col">%s</th>`, templ.EscapeString(col))
		}
		ew.print(`</tr></thead><tbody>`)
		for _, row := range d.Rows {
			ew.print(`<tr>`)
			for _, col := range d.Columns {
				v := row[col]
				if v == nil {
					ew.print(`<td class="null"></td>`)
					continue
				}
				ew.printf(`<td>%s</td>`, templ.EscapeString(cleaner.Stringify(v)))
			}
			ew.print(`</tr>`)
		}
		ew.print(`</tbody></table></div>`)
		return ew.err
	})
}

// ErrorAlert renders an error banner with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.printf(`<div class="alert alert-error" role="alert" data-code="%s">`, templ.EscapeString(code))
		ew.printf(`<p class="alert-message">%s</p>`, templ.EscapeString(message))
		if action != "" {
			ew.printf(`<p class="alert-action">%s</p>`, templ.EscapeString(action))
		}
		if code != "" {
			ew.printf(`<p class="alert-code">Error code: %s</p>`, templ.EscapeString(code))
		}
		ew.print(`</div>`)
		return ew.err
	})
}

// errWriter keeps the first write error so templates can write freely.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) print(s string) {
	if e.err == nil {
		_, e.err = io.WriteString(e.w, s)
	}
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}
