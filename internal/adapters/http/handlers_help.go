package web

import (
	"bytes"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

const helpMarkdown = `# InOffice help

InOffice tracks which days you were in the office.

## Marking days

Click a day in the calendar to toggle it. A marked day counts toward your
stats; clicking it again removes the mark. Changes are saved immediately —
if saving fails, the day flips back and an error message is shown.

## Stats

* **This month** — marked days in the calendar month you are viewing.
* **Rolling window** — marked days in the last 91 days, ending today.
  Days in the future never count.

## Backup

*Export* downloads your marked days as a JSON file. *Import* reads such a
file back:

* **Replace** swaps your data for the file's contents.
* **Merge** adds the file's days to what you already have.

An import is all-or-nothing: if any entry in the file is not a valid date,
nothing is changed. Files are limited to 10000 entries.
`

// handleHelp handles GET /help — the user guide, rendered from markdown.
func handleHelp(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(helpMarkdown), &buf); err != nil {
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html><html><head><title>InOffice help</title>" +
		`<link rel="stylesheet" href="/style.css">` +
		"</head><body><main>"))
	w.Write(buf.Bytes())
	w.Write([]byte("</main></body></html>"))
}
