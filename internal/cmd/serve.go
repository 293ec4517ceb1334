package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wethinkt/go-molty/internal/config"
	"github.com/wethinkt/go-molty/internal/dashlog"
	"github.com/wethinkt/go-molty/internal/server"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveStatic  string
	serveQuiet   bool
	serveMetrics bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Start the local dashboard HTTP server.

The server provides:
  GET /api/status    current activity snapshot (consumes new log lines)
  GET /api/projects  published projects from the markdown journal
  GET /api/stats     commit and line counts, cached briefly
  GET /*             static files for the frontend

Port resolution: --port, then the PORT environment variable, then the
config file, then 8790.

Examples:
  molty serve                  # http://localhost:8790
  molty serve -p 9000          # custom port
  molty serve --static ./web   # serve the frontend from ./web
  molty serve --metrics        # also expose /metrics`,
	RunE: runServe,
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "port to listen on")
	cmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "loopback host to bind to")
	cmd.Flags().StringVar(&serveStatic, "static", "", "directory served for non-API paths (default: current directory)")
	cmd.Flags().BoolVarP(&serveQuiet, "quiet", "q", false, "suppress HTTP request logging")
	cmd.Flags().BoolVar(&serveMetrics, "metrics", false, "expose Prometheus metrics at /metrics")
}

// serverConfig merges explicitly set flags over the loaded config.
func serverConfig(cmd *cobra.Command, cfg config.Config) server.Config {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("static") {
		cfg.StaticDir = serveStatic
	}
	if flags.Changed("metrics") {
		cfg.Metrics = serveMetrics
	}
	sc := server.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		StaticDir: cfg.StaticDir,
		Metrics:   cfg.Metrics,
		Quiet:     serveQuiet,
	}
	// With --log, requests go to the log file next to everything else.
	if logPath != "" {
		sc.AccessLog = dashlog.Log.Writer()
	}
	return sc
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srvConfig := serverConfig(cmd, cfg)
	if reg, err := config.DefaultRegistry(); err == nil {
		srvConfig.Instances = reg
	} else {
		dashlog.Log.Warn("Instance registry unavailable", "error", err)
	}

	dashlog.Log.Info("Starting HTTP server", "port", srvConfig.Port, "host", srvConfig.Host)
	srv := server.New(newSources(cfg), srvConfig)

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			dashlog.Log.Info("Received interrupt signal, shutting down")
			fmt.Fprintln(os.Stderr, "\nShutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return srv.ListenAndServe(ctx)
}
