// ABOUTME: Root Cobra command for roster CLI.
// ABOUTME: Loads config and logger in PersistentPreRunE and closes the archive afterwards.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/config"
	"github.com/harperreed/roster/internal/logging"
	"github.com/harperreed/roster/internal/storage"
)

var (
	cfg    *config.Config
	logger *zap.Logger
	repo   storage.Repository

	profileFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Student roster reports",
	Long: `Roster loads a student roster (CSV or XLSX), derives age, height in cm,
weight in kg and BMI for every student, and reports on filtered views.

QUICK START:

  $ roster show estudiantes.csv                     # Derived table + KPIs
  $ roster show estudiantes.csv --rh O+ --barrio Norte
  $ roster summary estudiantes.csv                  # KPIs + statistics
  $ roster top height estudiantes.csv -o top5_estatura.csv
  $ roster export xlsx estudiantes.csv              # estudiantes_modificado.xlsx
  $ roster chart estudiantes.csv -d charts/         # PNG panels

FILTERS:

  --rh, --hair, --barrio     Allowed blood types, hair colors, neighborhoods
                             (repeatable or comma-separated)
  --age-min, --age-max       Age range in years (0-120)
  --height-min, --height-max Height range in cm (0-250)

  Rows with an absent value are dropped once the matching filter narrows.

PROFILES:

  grupo001   No preselected categories (default)
  listado    Every category preselected, plus BMI and neighborhood charts

SNAPSHOTS:

  $ roster snapshot add estudiantes.csv --name "grupo 001"
  $ roster snapshot list
  $ roster show @latest             # Use the newest archived roster
  $ roster show @1a2b3c4d           # Use a snapshot by id prefix

SERVERS:

  $ roster serve estudiantes.csv --addr 127.0.0.1:8080   # HTTP API
  $ roster mcp estudiantes.csv                           # MCP over stdio

CONFIGURATION:

  ~/.config/roster/config.json, overridden by ROSTER_PROFILE, ROSTER_LOG_LEVEL,
  ROSTER_LOG_FORMAT, ROSTER_LISTEN_ADDR, ROSTER_DELIMITER and ROSTER_DATA_DIR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.GetLogLevel()
		if logLevelFlag != "" {
			level = logLevelFlag
		}
		logger, err = logging.New(level, cfg.GetLogFormat())
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if repo != nil {
			err := repo.Close()
			repo = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&profileFlag, "profile", "p", "", "report profile: grupo001 or listado (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openRepo opens the snapshot archive on first use.
func openRepo() (storage.Repository, error) {
	if repo != nil {
		return repo, nil
	}
	r, err := cfg.OpenStorage()
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot archive: %w", err)
	}
	repo = r
	return repo, nil
}
