package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-molty/internal/cli"
)

// Projects command flags
var (
	projectsShort    bool
	projectsSummary  bool
	projectsTemplate string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List published projects",
	Long: `List projects from the published-projects journal.

By default prints a table of name, date, status and description.
Use --short for names only, --summary for a detailed view, or --json
for the same payload as GET /api/projects.

` + cli.SummaryTemplateHelp + `
Examples:
  molty projects                      # table
  molty projects --short              # names only
  molty projects --summary            # detailed summary
  molty projects --summary --template '{{range .}}{{.Name}}{{"\n"}}{{end}}'`,
	RunE: runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projects, err := newSources(cfg).Journal.Projects()
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		return cli.WriteJSON(out, projects)
	}

	width := 0
	if out == os.Stdout {
		width = cli.TerminalWidth(os.Stdout)
	}
	formatter := cli.NewProjectsFormatter(out, width)

	switch {
	case projectsShort:
		return formatter.FormatShort(projects)
	case projectsSummary || projectsTemplate != "":
		return formatter.FormatSummary(projects, projectsTemplate)
	default:
		return formatter.FormatTable(projects)
	}
}
