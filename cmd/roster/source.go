// ABOUTME: Resolves a command's roster source: a file path or an archived snapshot.
// ABOUTME: "@latest" and "@<id-prefix>" read stored bytes and derive them afresh.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/report"
	"github.com/harperreed/roster/internal/roster"
)

const latestRef = "latest"

// reportOptions builds pipeline options from flags and config.
func reportOptions() (report.Options, error) {
	name := cfg.GetProfile()
	if profileFlag != "" {
		name = profileFlag
	}
	p, err := report.LookupProfile(name)
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Profile: p,
		Loader:  roster.Options{Delimiter: cfg.GetDelimiter()},
		Logger:  logger,
	}, nil
}

// loadReport loads and derives the roster named by source.
func loadReport(source string) (*report.Report, error) {
	opts, err := reportOptions()
	if err != nil {
		return nil, err
	}

	var rep *report.Report
	if ref, ok := strings.CutPrefix(source, "@"); ok {
		rep, err = loadSnapshot(ref, opts)
	} else {
		rep, err = report.Open(source, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	if n := rep.Failures.Total(); n > 0 {
		fmt.Fprintln(os.Stderr, color.YellowString("! %d value(s) could not be parsed and are shown as absent", n))
	}
	return rep, nil
}

func loadSnapshot(ref string, opts report.Options) (*report.Report, error) {
	r, err := openRepo()
	if err != nil {
		return nil, err
	}

	var snap *models.Snapshot
	if ref == latestRef {
		snap, err = r.GetLatestSnapshot()
	} else {
		snap, err = r.GetSnapshot(ref)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("loading snapshot",
		zap.String("id", snap.ShortID()),
		zap.String("format", snap.Format))

	base, err := tableFromSnapshot(snap, opts.Loader)
	if err != nil {
		return nil, err
	}
	return report.New(base, opts), nil
}

func tableFromSnapshot(snap *models.Snapshot, opts roster.Options) (*roster.Table, error) {
	if snap.Format == models.FormatXLSX {
		return roster.LoadXLSX(bytes.NewReader(snap.Content))
	}
	return roster.Load(bytes.NewReader(snap.Content), opts)
}
