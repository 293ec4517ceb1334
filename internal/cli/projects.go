// Package cli provides CLI output formatting utilities.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"text/template"

	"github.com/charmbracelet/x/ansi"

	"github.com/wethinkt/go-molty/internal/catalog"
)

// DefaultSummaryTemplate is the default template for `molty projects --summary`.
const DefaultSummaryTemplate = `{{range .}}{{.Name}}{{if .Date}} ({{.Date}}){{end}}
{{- if .Repo}}
  Repo:   {{.Repo}}{{end}}
{{- if .Stack}}
  Stack:  {{.Stack}}{{end}}
{{- if .Status}}
  Status: {{.Status}}{{end}}
{{- if .Description}}
  {{.Description}}{{end}}
{{end}}`

// SummaryTemplateHelp documents the template variables available.
const SummaryTemplateHelp = `Template Variables
==================

The template receives the list of projects. Each project has:
  .Name         string - Heading text
  .Date         string - Parenthesized heading suffix (may be empty)
  .Repo         string - Repository URL (may be empty)
  .Description  string - **What:** text
  .Stack        string - **Stack:** line
  .Status       string - **Status:** line

Example:
  {{range .}}{{.Name}}: {{.Status}}
  {{end}}`

// ProjectsFormatter formats project listings for CLI output.
type ProjectsFormatter struct {
	w     io.Writer
	width int // Terminal width; 0 disables truncation
}

// NewProjectsFormatter creates a projects formatter. width bounds the line
// length of the table view; pass 0 when not writing to a terminal.
func NewProjectsFormatter(w io.Writer, width int) *ProjectsFormatter {
	return &ProjectsFormatter{w: w, width: width}
}

// FormatShort writes project names, one per line.
func (f *ProjectsFormatter) FormatShort(projects []catalog.Project) error {
	for _, p := range projects {
		fmt.Fprintln(f.w, p.Name)
	}
	return nil
}

// FormatTable writes name, date, status and description in aligned columns.
// Descriptions are flattened to one line and cut to fit the terminal.
func (f *ProjectsFormatter) FormatTable(projects []catalog.Project) error {
	w := tabwriter.NewWriter(f.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDATE\tSTATUS\tDESCRIPTION")

	for _, p := range projects {
		date := dash(p.Date)
		status := dash(p.Status)
		desc := dash(flatten(p.Description))
		if f.width > 0 {
			used := ansi.StringWidth(p.Name) + ansi.StringWidth(date) + ansi.StringWidth(status) + 6
			if room := f.width - used; room > 8 {
				desc = ansi.Truncate(desc, room, "…")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, date, status, desc)
	}

	return w.Flush()
}

// FormatSummary renders projects through a text/template. An empty tmplStr
// uses DefaultSummaryTemplate.
func (f *ProjectsFormatter) FormatSummary(projects []catalog.Project, tmplStr string) error {
	if tmplStr == "" {
		tmplStr = DefaultSummaryTemplate
	}
	tmpl, err := template.New("summary").Parse(tmplStr)
	if err != nil {
		return fmt.Errorf("parse template: %w", err)
	}
	return tmpl.Execute(f.w, projects)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func flatten(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		out = append(out, r)
	}
	return string(out)
}
