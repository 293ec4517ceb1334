// Package catalog parses the published-projects journal: a markdown document
// with one "## Name (date)" section per project and bold-labeled fields.
//
//	## molty-dashboard (2026-01-04)
//	**Repo:** https://github.com/example/molty-dashboard
//	**What:** Status page for the agent.
//	**Stack:** Go, chi
//	**Status:** Shipped
package catalog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// Project is one published project. Records have no identity beyond their
// position in the document.
type Project struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Repo        string `json:"repo"`
	Description string `json:"description"`
	Stack       string `json:"stack"`
	Status      string `json:"status"`
}

var (
	sectionStart = regexp.MustCompile(`(?m)^## [\p{L}\p{N}_]`)
	headingLine  = regexp.MustCompile(`^## (.+?)(?:\s*\((.+?)\))?\s*$`)
	repoField    = regexp.MustCompile(`\*\*Repo:\*\*\s*(https?://\S+)`)
	whatField    = regexp.MustCompile(`(?s)\*\*What:\*\*\s*(.+?)(?:\n\n|\n\*\*|\z)`)
	stackField   = regexp.MustCompile(`\*\*Stack:\*\*\s*(.+)`)
	statusField  = regexp.MustCompile(`\*\*Status:\*\*\s*(.+)`)
)

// ParseFile parses the journal at path. A missing file yields an empty list.
func ParseFile(path string) ([]Project, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Project{}, nil
	}
	if err != nil {
		return []Project{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a journal from r.
func Parse(r io.Reader) ([]Project, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return []Project{}, fmt.Errorf("read catalog: %w", err)
	}
	return ParseString(string(data)), nil
}

// ParseString parses journal text. Sections keep document order; duplicates
// are kept. Text before the first heading is ignored.
func ParseString(text string) []Project {
	projects := []Project{}
	for _, sec := range splitSections(text) {
		sec = strings.TrimSpace(sec)
		if !strings.HasPrefix(sec, "## ") {
			continue
		}
		if p, ok := parseSection(sec); ok {
			projects = append(projects, p)
		}
	}
	return projects
}

// splitSections cuts text in front of every "## <word>" line.
func splitSections(text string) []string {
	starts := sectionStart.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return []string{text}
	}

	sections := make([]string, 0, len(starts)+1)
	prev := 0
	for _, loc := range starts {
		if loc[0] > prev {
			sections = append(sections, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	return append(sections, text[prev:])
}

func parseSection(sec string) (Project, bool) {
	first, _, _ := strings.Cut(sec, "\n")
	m := headingLine.FindStringSubmatch(strings.TrimRight(first, "\r"))
	if m == nil {
		return Project{}, false
	}

	return Project{
		Name:        strings.TrimSpace(m[1]),
		Date:        m[2],
		Repo:        field(repoField, sec),
		Description: field(whatField, sec),
		Stack:       field(stackField, sec),
		Status:      field(statusField, sec),
	}, true
}

func field(re *regexp.Regexp, sec string) string {
	if m := re.FindStringSubmatch(sec); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// Journal is a catalog file re-read on every call so edits show up on the
// next request.
type Journal struct {
	Path string
}

// Projects parses the journal. On error the returned slice is empty, never nil.
func (j Journal) Projects() ([]Project, error) {
	return ParseFile(j.Path)
}

// Count returns the number of projects, or 0 if the journal cannot be read.
func (j Journal) Count() int {
	projects, _ := j.Projects()
	return len(projects)
}
