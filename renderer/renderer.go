// Package renderer turns journal entries into markdown.
//
// The markdown is produced from text/template files embedded in the binary and
// is meant to be printed as is, or styled for a terminal.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/journal"
)

//go:embed templates/*.md
var templates embed.FS

// Entries renders entries as a markdown table, amounts displayed in currency.
func Entries(entries []journal.Entry, currency string) string {
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newEntryView(e, currency))
	}
	partials := map[string]string{
		"entries_header": "entries_header.md",
	}
	return renderTemplate("entries", "entries.md", partials, views)
}

// Entry renders a single entry as a markdown section.
func Entry(e journal.Entry, currency string) string {
	partials := map[string]string{
		"entries_header": "entries_header.md",
	}
	return renderTemplate("entry", "entry.md", partials, newEntryView(e, currency))
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, "templates/"+file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
