// ABOUTME: CLI commands for the snapshot archive of roster files.
// ABOUTME: Supports add, list, show, and delete subcommands.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/report"
)

var (
	snapshotName  string
	snapshotNotes string
	snapshotLimit int
)

var snapshotCmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"snap"},
	Short:   "Manage archived rosters",
	Long: `Archive roster files so they can be reported on later.

The original file bytes are stored; derived values are recomputed every time
a snapshot is read, so ages stay current.

WORKFLOW:

  1. Archive a file:        roster snapshot add estudiantes.csv --name "2024-1"
  2. List the archive:      roster snapshot list
  3. Report on a snapshot:  roster show @abc12345   (or @latest)

COMMANDS:

  add      Archive a CSV or XLSX roster
  list     List archived rosters, newest first
  show     Show a snapshot's metadata and KPIs
  delete   Remove a snapshot`,
}

var snapshotAddCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Archive a roster file",
	Long: `Archive a roster file. The file must load cleanly.

Examples:
  roster snapshot add estudiantes.csv
  roster snapshot add ListadoDeEstudiantes.xlsx --name listado --notes "2024"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		content, err := os.ReadFile(path) //nolint:gosec // path is supplied by the user on purpose
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		name := snapshotName
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		snap := models.NewSnapshot(name, content, 0).WithSourcePath(path)
		if snapshotNotes != "" {
			snap.WithNotes(snapshotNotes)
		}

		opts, err := reportOptions()
		if err != nil {
			return err
		}
		base, err := tableFromSnapshot(snap, opts.Loader)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		snap.RowCount = base.Len()

		r, err := openRepo()
		if err != nil {
			return err
		}
		if err := r.SaveSnapshot(snap); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Archived %s (%d rows)", snap.Name, snap.RowCount))
		fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprint(snap.ShortID()))
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List archived rosters",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		snapshots, err := r.ListSnapshots(snapshotLimit)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(snapshots) == 0 {
			fmt.Fprintln(out, "No snapshots found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range snapshots {
			notes := ""
			if s.Notes != nil && *s.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*s.Notes, 30))
			}
			fmt.Fprintf(out, "%s %s %s %4d rows %s%s\n",
				faint.Sprint(s.ShortID()),
				faint.Sprint(s.ImportedAt.Format("2006-01-02 15:04")),
				padRight(s.Name, 24),
				s.RowCount,
				s.Format,
				notes)
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a snapshot with its KPIs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		snap, err := r.GetSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("snapshot not found: %s", args[0])
		}

		opts, err := reportOptions()
		if err != nil {
			return err
		}
		base, err := tableFromSnapshot(snap, opts.Loader)
		if err != nil {
			return err
		}
		rep := report.New(base, opts)
		v, err := rep.View(rep.DefaultCriteria())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		faint := color.New(color.Faint)
		color.New(color.Bold).Fprintln(out, snap.Name)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint("id:      "), snap.ID)
		fmt.Fprintf(out, "  %s %s\n", faint.Sprint("imported:"), snap.ImportedAt.Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  %s %s (%s, %d bytes)\n", faint.Sprint("source:  "), snap.SourcePath, snap.Format, len(snap.Content))
		if snap.Notes != nil {
			fmt.Fprintf(out, "  %s %s\n", faint.Sprint("notes:   "), *snap.Notes)
		}
		fmt.Fprintln(out)
		printKPIs(out, v.KPIs)
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a snapshot",
	Long: `Delete a snapshot by its ID or ID prefix.

CAUTION:

  This permanently deletes the archived file. There is no undo.
  If the prefix matches multiple snapshots, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo()
		if err != nil {
			return err
		}
		snap, err := r.GetSnapshot(args[0])
		if err != nil {
			return fmt.Errorf("snapshot not found: %s", args[0])
		}
		if err := r.DeleteSnapshot(snap.ID.String()); err != nil {
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.YellowString("✗ Deleted %s", snap.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", color.New(color.Faint).Sprint(snap.ShortID()))
		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	snapshotAddCmd.Flags().StringVar(&snapshotName, "name", "", "snapshot name (default: file name)")
	snapshotAddCmd.Flags().StringVar(&snapshotNotes, "notes", "", "snapshot notes")
	snapshotListCmd.Flags().IntVarP(&snapshotLimit, "limit", "n", 20, "max number of results")

	snapshotCmd.AddCommand(snapshotAddCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
