// ABOUTME: Tests for CLI helper functions and command execution.
// ABOUTME: Runs commands against a temp roster file, config dir and archive.
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/harperreed/roster/internal/export"
)

const testCSV = `Código,Nombre_Estudiante,Apellido_Estudiante,Fecha_Nacimiento,Estatura,Peso,RH,Color_Cabello,Talla_Zapato,Barrio_Residencia
001,Ana,Pérez,15/03/2010,1.62,55,o+,castaño,37,centro
002,Luis,Gómez,01/12/2009,175,70,a+,negro,42,Norte
003,Eva,Ríos,,1.50,40,,negro,35,norte
`

// setupTestCLI writes the test roster and points config and data dirs at a
// temp directory. It returns the roster path and the temp directory.
func setupTestCLI(t *testing.T) (string, string) {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	t.Setenv("ROSTER_LOG_LEVEL", "error")

	path := filepath.Join(tmpDir, "estudiantes.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0600); err != nil {
		t.Fatalf("Failed to write roster: %v", err)
	}

	t.Cleanup(func() {
		if repo != nil {
			repo.Close()
			repo = nil
		}
	})
	return path, tmpDir
}

// resetFlags restores every flag to its default so runs do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world this is long", 10, "hello w..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("abc", 6); got != "abc   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not cut, got %q", got)
	}
}

func TestRootCmdFlags(t *testing.T) {
	if rootCmd.Use != "roster" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "roster")
	}
	if rootCmd.Short == "" {
		t.Error("Expected rootCmd.Short to be non-empty")
	}
	if rootCmd.PersistentFlags().Lookup("profile") == nil {
		t.Error("Expected --profile persistent flag")
	}
}

func TestFilterFlagsRegistered(t *testing.T) {
	for _, cmd := range []*cobra.Command{showCmd, summaryCmd, topCmd, exportCmd, chartCmd} {
		for _, name := range []string{"rh", "hair", "barrio", "age-min", "age-max", "height-min", "height-max"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("Expected --%s flag on %s", name, cmd.Name())
			}
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"show", "summary", "top", "export", "chart", "serve", "mcp", "snapshot", "install-skill"}
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("Expected %s command to be registered", name)
		}
	}
}

func TestSnapshotCmdSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range snapshotCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, name := range []string{"add", "delete", "list", "show"} {
		if !names[name] {
			t.Errorf("Expected snapshot subcommand %s", name)
		}
	}
}

func TestExportCmdValidArgs(t *testing.T) {
	want := map[string]bool{"csv": true, "xlsx": true, "markdown": true, "json": true, "yaml": true}
	if len(exportCmd.ValidArgs) != len(want) {
		t.Fatalf("ValidArgs = %v", exportCmd.ValidArgs)
	}
	for _, a := range exportCmd.ValidArgs {
		if !want[a] {
			t.Errorf("unexpected format %q", a)
		}
	}
}

func TestShowCmd(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "show", path)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"Ana Pérez", "Luis Gómez", "Eva Ríos", "Estudiantes: 3", "Estatura media (cm): 162.33"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCmdWithFilters(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "show", path, "--rh", "O+")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Ana Pérez") || strings.Contains(out, "Luis Gómez") {
		t.Errorf("unexpected rows:\n%s", out)
	}
	if !strings.Contains(out, "Estudiantes: 1") {
		t.Errorf("expected count 1:\n%s", out)
	}

	out, err = run(t, "show", path, "--barrio", "Norte", "--height-min", "160")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Luis Gómez") || strings.Contains(out, "Eva Ríos") {
		t.Errorf("unexpected rows:\n%s", out)
	}

	// Values typed as they appear in the source file still match.
	out, err = run(t, "show", path, "--barrio", "norte")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Estudiantes: 2") {
		t.Errorf("expected count 2 for lower-case barrio:\n%s", out)
	}
}

func TestShowCmdNoMatches(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "show", path, "--rh", "AB-")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "No students match") || !strings.Contains(out, "IMC medio: N/A") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestShowCmdListadoProfile(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "show", path, "--profile", "listado")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "Estudiantes: 2") {
		t.Errorf("listado preselection should drop the row without RH:\n%s", out)
	}
}

func TestShowCmdErrors(t *testing.T) {
	path, tmpDir := setupTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"show", filepath.Join(tmpDir, "nope.csv")}},
		{"inverted range", []string{"show", path, "--age-min", "20", "--age-max", "10"}},
		{"unknown profile", []string{"show", path, "--profile", "nope"}},
		{"missing snapshot", []string{"show", "@deadbeef"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSummaryCmd(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "summary", path)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	for _, want := range []string{"Estudiantes Grupo 001", "all students", "Estatura_cm", "Clasificación IMC", "Normal", "Barrios"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTopCmdWritesCSV(t *testing.T) {
	path, tmpDir := setupTestCLI(t)
	outPath := filepath.Join(tmpDir, "top.csv")

	out, err := run(t, "top", "height", path, "-o", outPath)
	if err != nil {
		t.Fatalf("top failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 3 rows") {
		t.Errorf("unexpected output:\n%s", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "002,") || !strings.HasPrefix(lines[3], "003,") {
		t.Errorf("rows not sorted by height:\n%s", data)
	}
}

func TestTopCmdSaveUsesDownloadName(t *testing.T) {
	path, tmpDir := setupTestCLI(t)
	t.Chdir(tmpDir)

	if _, err := run(t, "top", "weight", path, "--save", "-n", "2"); err != nil {
		t.Fatalf("top failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(tmpDir, export.Top5WeightFilename))
	if err != nil {
		t.Fatalf("expected %s: %v", export.Top5WeightFilename, err)
	}
	if n := len(strings.Split(strings.TrimSpace(string(data)), "\n")); n != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", n)
	}
}

func TestTopCmdInvalidKey(t *testing.T) {
	path, _ := setupTestCLI(t)

	_, err := run(t, "top", "shoe", path)
	if err == nil || !strings.Contains(err.Error(), "unknown sort key") {
		t.Errorf("expected unknown sort key error, got %v", err)
	}
}

func TestExportJSONCmd(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "export", "json", path, "--hair", "Negro")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var doc export.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(doc.Rows) != 2 || doc.KPIs.Count != 2 {
		t.Errorf("expected 2 rows, got %d (kpis %d)", len(doc.Rows), doc.KPIs.Count)
	}
	if doc.Filter != "Color_Cabello in [Negro]" {
		t.Errorf("Filter = %q", doc.Filter)
	}
}

func TestExportFormatsCmd(t *testing.T) {
	path, _ := setupTestCLI(t)

	tests := []struct {
		format string
		want   string
	}{
		{"csv", "Código,Nombre_Estudiante"},
		{"markdown", "| Código |"},
		{"yaml", "tool: roster"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "export", tt.format, path)
			if err != nil {
				t.Fatalf("export %s failed: %v", tt.format, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestExportXLSXDefaultFilename(t *testing.T) {
	path, tmpDir := setupTestCLI(t)
	t.Chdir(tmpDir)

	if _, err := run(t, "export", "xlsx", path); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, export.SpreadsheetFilename)); err != nil {
		t.Errorf("expected %s: %v", export.SpreadsheetFilename, err)
	}

	if _, err := run(t, "export", "xlsx", path, "--profile", "listado"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, export.ListadoSpreadsheetFilename)); err != nil {
		t.Errorf("expected %s: %v", export.ListadoSpreadsheetFilename, err)
	}
}

func TestExportInvalidFormat(t *testing.T) {
	path, _ := setupTestCLI(t)

	_, err := run(t, "export", "pdf", path)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestChartCmd(t *testing.T) {
	path, tmpDir := setupTestCLI(t)
	dir := filepath.Join(tmpDir, "charts")

	out, err := run(t, "chart", path, "-d", dir)
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	for _, name := range []string{"age_distribution.png", "height_vs_weight.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if strings.Contains(out, "skipped") {
		t.Errorf("no panel should be skipped:\n%s", out)
	}
}

func TestChartCmdSkipsEmptyPanels(t *testing.T) {
	path, tmpDir := setupTestCLI(t)
	dir := filepath.Join(tmpDir, "charts")

	out, err := run(t, "chart", path, "-d", dir, "--rh", "AB-")
	if err != nil {
		t.Fatalf("chart failed: %v", err)
	}
	if !strings.Contains(out, "2 panel(s) skipped") {
		t.Errorf("expected skipped panels:\n%s", out)
	}
}

func TestSnapshotWorkflow(t *testing.T) {
	path, _ := setupTestCLI(t)

	out, err := run(t, "snapshot", "add", path, "--name", "grupo", "--notes", "primer semestre")
	if err != nil {
		t.Fatalf("snapshot add failed: %v", err)
	}
	if !strings.Contains(out, "Archived grupo (3 rows)") {
		t.Errorf("unexpected add output:\n%s", out)
	}

	out, err = run(t, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	if !strings.Contains(out, "grupo") || !strings.Contains(out, "primer semestre") {
		t.Errorf("unexpected list output:\n%s", out)
	}
	id := strings.Fields(out)[0]

	out, err = run(t, "show", "@latest")
	if err != nil {
		t.Fatalf("show @latest failed: %v", err)
	}
	if !strings.Contains(out, "Estudiantes: 3") {
		t.Errorf("unexpected show output:\n%s", out)
	}

	out, err = run(t, "snapshot", "show", id)
	if err != nil {
		t.Fatalf("snapshot show failed: %v", err)
	}
	if !strings.Contains(out, "estudiantes.csv") || !strings.Contains(out, "Estudiantes: 3") {
		t.Errorf("unexpected snapshot show output:\n%s", out)
	}

	if _, err := run(t, "snapshot", "delete", id); err != nil {
		t.Fatalf("snapshot delete failed: %v", err)
	}
	out, err = run(t, "snapshot", "list")
	if err != nil {
		t.Fatalf("snapshot list failed: %v", err)
	}
	if !strings.Contains(out, "No snapshots found.") {
		t.Errorf("expected empty archive:\n%s", out)
	}
}

func TestSnapshotAddRejectsMissingFile(t *testing.T) {
	_, tmpDir := setupTestCLI(t)

	if _, err := run(t, "snapshot", "add", filepath.Join(tmpDir, "nope.csv")); err == nil {
		t.Error("Expected error for missing file")
	}
}
