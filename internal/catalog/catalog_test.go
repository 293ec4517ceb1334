package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const journal = `# Published

Everything molty has shipped so far.

## tinyhttp (2026-01-03)
**Repo:** https://github.com/molty/tinyhttp
**What:** A very small HTTP server
written in an afternoon.
**Stack:** Go
**Status:** Shipped

## notes-cli
**What:** Terminal note taker.

**Stack:** Rust, clap
**Status:** WIP

## tinyhttp (2026-02-01)
**Status:** Rewrite
`

func TestParseString(t *testing.T) {
	projects := ParseString(journal)
	if len(projects) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(projects))
	}

	want := Project{
		Name:        "tinyhttp",
		Date:        "2026-01-03",
		Repo:        "https://github.com/molty/tinyhttp",
		Description: "A very small HTTP server\nwritten in an afternoon.",
		Stack:       "Go",
		Status:      "Shipped",
	}
	if !reflect.DeepEqual(projects[0], want) {
		t.Errorf("first project:\n got %+v\nwant %+v", projects[0], want)
	}

	second := projects[1]
	if second.Name != "notes-cli" || second.Date != "" {
		t.Errorf("unexpected heading fields: %+v", second)
	}
	if second.Repo != "" {
		t.Errorf("missing repo should be empty, got %q", second.Repo)
	}
	if second.Description != "Terminal note taker." {
		t.Errorf("description should stop at blank line, got %q", second.Description)
	}
	if second.Stack != "Rust, clap" || second.Status != "WIP" {
		t.Errorf("unexpected stack/status: %+v", second)
	}

	if projects[2].Name != "tinyhttp" || projects[2].Status != "Rewrite" {
		t.Errorf("duplicate names should be kept in order: %+v", projects[2])
	}
}

func TestParseRepoOnlyOnFirst(t *testing.T) {
	doc := "## one\n**Repo:** https://example.com/one\n\n## two\n**Stack:** Go\n"
	projects := ParseString(doc)
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Repo != "https://example.com/one" {
		t.Errorf("expected repo on first, got %q", projects[0].Repo)
	}
	if projects[1].Repo != "" {
		t.Errorf("expected empty repo on second, got %q", projects[1].Repo)
	}
}

func TestParseIdempotent(t *testing.T) {
	a := ParseString(journal)
	b := ParseString(journal)
	if !reflect.DeepEqual(a, b) {
		t.Error("parsing the same document twice should give the same result")
	}
}

func TestParseIgnoresNonSections(t *testing.T) {
	doc := "# Title\n\n### not a project\n##nospace\n## \n"
	if got := ParseString(doc); len(got) != 0 {
		t.Errorf("expected no projects, got %+v", got)
	}
}

func TestParseHeadingVariants(t *testing.T) {
	tests := []struct {
		heading string
		name    string
		date    string
	}{
		{"## plain", "plain", ""},
		{"## spaced name  (Jan 2026)  ", "spaced name", "Jan 2026"},
		{"## mid (paren) text", "mid (paren) text", ""},
		{"## ünïcode (today)", "ünïcode", "today"},
	}
	for _, tt := range tests {
		projects := ParseString(tt.heading + "\n**Status:** ok\n")
		if len(projects) != 1 {
			t.Errorf("%q: expected 1 project, got %d", tt.heading, len(projects))
			continue
		}
		if projects[0].Name != tt.name || projects[0].Date != tt.date {
			t.Errorf("%q: got name=%q date=%q, want name=%q date=%q",
				tt.heading, projects[0].Name, projects[0].Date, tt.name, tt.date)
		}
	}
}

// A What field on the last line of a section ends at the section end. The
// Python dashboard only stopped at a blank line or the next ** line, so it
// returned "" here.
func TestParseDescriptionAtEnd(t *testing.T) {
	projects := ParseString("## last\n**What:** trailing description")
	if len(projects) != 1 || projects[0].Description != "trailing description" {
		t.Errorf("unexpected %+v", projects)
	}
}

func TestParseRepoRequiresURL(t *testing.T) {
	projects := ParseString("## x\n**Repo:** not yet\n")
	if projects[0].Repo != "" {
		t.Errorf("non-URL repo should be ignored, got %q", projects[0].Repo)
	}
}

func TestParseFileMissing(t *testing.T) {
	projects, err := ParseFile(filepath.Join(t.TempDir(), "published.md"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", projects)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.md")
	if err := os.WriteFile(path, []byte(journal), 0644); err != nil {
		t.Fatal(err)
	}
	projects, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(projects) != 3 {
		t.Errorf("expected 3 projects, got %d", len(projects))
	}
}

func TestParseReader(t *testing.T) {
	projects, err := Parse(strings.NewReader("## a\n## b\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].Name != "a" || projects[1].Name != "b" {
		t.Errorf("unexpected %+v", projects)
	}
}

func TestJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "published.md")
	j := Journal{Path: path}
	if j.Count() != 0 {
		t.Errorf("missing journal should count 0, got %d", j.Count())
	}

	os.WriteFile(path, []byte("## a\n## b\n"), 0644)
	if j.Count() != 2 {
		t.Errorf("expected 2, got %d", j.Count())
	}

	os.WriteFile(path, []byte("## a\n"), 0644)
	projects, err := j.Projects()
	if err != nil || len(projects) != 1 {
		t.Errorf("journal should be re-read, got %d projects (err=%v)", len(projects), err)
	}
}
