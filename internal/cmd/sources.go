package cmd

import (
	"github.com/wethinkt/go-molty/internal/activity"
	"github.com/wethinkt/go-molty/internal/catalog"
	"github.com/wethinkt/go-molty/internal/config"
	"github.com/wethinkt/go-molty/internal/dashlog"
	"github.com/wethinkt/go-molty/internal/gitstats"
	"github.com/wethinkt/go-molty/internal/server"
)

// newSources builds the data providers from configuration. Every command
// goes through here so the CLI and the server read the same locations.
func newSources(cfg config.Config) server.Sources {
	journal := catalog.Journal{Path: cfg.PublishedPath}
	sources := server.Sources{
		Tracker: activity.NewTracker(cfg.LogDir, cfg.LogGlob,
			activity.WithStaleAfter(cfg.StaleAfterDuration())),
		Journal: journal,
		Stats: gitstats.NewAggregator(cfg.ProjectsDir, gitstats.GitCounter{}, journal.Count,
			gitstats.WithTTL(cfg.StatsTTLDuration())),
	}
	dashlog.Log.Debug("Sources configured",
		"logs", cfg.LogDir, "glob", cfg.LogGlob,
		"published", cfg.PublishedPath, "projects", cfg.ProjectsDir)
	return sources
}
