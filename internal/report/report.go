// ABOUTME: Report pipeline: load, derive once, then filter views on demand.
// ABOUTME: The derived table is read-only; every view is a fresh row subset.
package report

import (
	"io"

	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/derive"
	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/roster"
)

// Options configures report construction.
type Options struct {
	Profile Profile
	Loader  roster.Options
	// Deriver defaults to a wall-clock deriver logging through Logger.
	Deriver *derive.Deriver
	Logger  *zap.Logger
}

// Report holds the derived roster and its profile.
type Report struct {
	Profile  Profile
	Table    *roster.Table
	Failures derive.ParseFailures
}

// New derives base and wraps it in a Report.
func New(base *roster.Table, opts Options) *Report {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	d := opts.Deriver
	if d == nil {
		d = derive.NewDeriver(logger)
	}

	table, failures := d.Derive(base)
	logger.Debug("roster derived",
		zap.String("profile", opts.Profile.Name),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Columns)))

	return &Report{Profile: opts.Profile, Table: table, Failures: failures}
}

// Read loads delimited text from r and builds a Report.
func Read(r io.Reader, opts Options) (*Report, error) {
	base, err := roster.Load(r, opts.Loader)
	if err != nil {
		return nil, err
	}
	return New(base, opts), nil
}

// Open loads the roster file at path and builds a Report.
func Open(path string, opts Options) (*Report, error) {
	base, err := roster.LoadFile(path, opts.Loader)
	if err != nil {
		return nil, err
	}
	return New(base, opts), nil
}

// Options returns the selectable values of a categorical field.
func (r *Report) Options(f models.Field) []string {
	return filter.Options(r.Table.Students, f)
}

// DefaultCriteria is the initial filter state of the profile. Ranges span
// their full domains so rows with absent values stay visible.
func (r *Report) DefaultCriteria() filter.Criteria {
	c := filter.NewCriteria()
	if r.Profile.DefaultSelection == SelectAll {
		for _, f := range models.CategoricalFields {
			c = c.WithSelection(f, r.Options(f))
		}
	}
	return c
}

// View is one filtered subset of the report.
type View struct {
	Criteria filter.Criteria
	Table    *roster.Table
	KPIs     filter.KPIs
}

// View validates c and returns the matching rows with their KPIs.
func (r *Report) View(c filter.Criteria) (*View, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rows := filter.Apply(r.Table.Students, c)
	return &View{
		Criteria: c,
		Table:    r.Table.WithStudents(rows),
		KPIs:     filter.ComputeKPIs(rows),
	}, nil
}

// Top returns at most k rows of the view ranked by key.
func (v *View) Top(key filter.SortKey, k int) *roster.Table {
	return v.Table.WithStudents(filter.TopK(v.Table.Students, key, k))
}

// Describe returns descriptive statistics of the view.
func (v *View) Describe() []filter.Stats {
	return filter.Describe(v.Table.Students)
}
