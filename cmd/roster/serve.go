// ABOUTME: CLI commands for the long-running servers: HTTP API and MCP.
// ABOUTME: Both derive the roster once and stop on SIGINT or SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/httpapi"
	"github.com/harperreed/roster/internal/mcp"
	"github.com/harperreed/roster/internal/storage"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <file|@snapshot>",
	Short: "Start HTTP API",
	Long: `Serve the derived roster over HTTP.

ENDPOINTS:

  GET /api/students            Filtered rows
  GET /api/kpis                KPIs of the filtered rows
  GET /api/summary             KPIs, statistics and distributions
  GET /api/options             Selectable categories and data ranges
  GET /api/top/{key}?k=5       Top rows by height, weight, bmi or age
  GET /download/top5/{key}.csv Top-5 CSV (top5_estatura.csv, top5_peso.csv)
  GET /download/students.xlsx  Filtered spreadsheet
  GET /charts/{name}.png       Chart panel

FILTER QUERY:

  rh, hair, barrio             Repeatable, e.g. ?rh=O%2B&rh=A%2B
  age_min, age_max, height_min, height_max

EXAMPLES:

  roster serve estudiantes.csv
  roster serve estudiantes.csv --addr 0.0.0.0:9000 --profile listado`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := loadReport(args[0])
		if err != nil {
			return err
		}

		addr := cfg.GetListenAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, cancel := signalContext()
		defer cancel()

		return httpapi.Serve(ctx, addr, httpapi.NewHandler(rep, logger))
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp <file|@snapshot>",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

The server communicates via stdin/stdout and answers questions about the
derived roster.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "roster": {
        "command": "roster",
        "args": ["mcp", "/path/to/estudiantes.csv"]
      }
    }
  }

AVAILABLE TOOLS:

  list_students    Filtered rows
  get_kpis         Count and mean age, height, weight and BMI
  top_students     Top rows by height, weight, bmi or age
  describe         Descriptive statistics and BMI distribution
  filter_options   Selectable categories and data ranges
  list_snapshots   Archived rosters

AVAILABLE RESOURCES:

  roster://summary    KPIs, statistics and BMI distribution
  roster://students   Every derived row`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := loadReport(args[0])
		if err != nil {
			return err
		}

		var archive storage.Repository
		if r, err := openRepo(); err != nil {
			logger.Warn("snapshot archive unavailable", zap.Error(err))
		} else {
			archive = r
		}

		server, err := mcp.NewServer(rep, archive, logger)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		return server.Serve(ctx)
	},
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}
