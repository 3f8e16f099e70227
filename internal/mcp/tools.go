// ABOUTME: MCP tool implementations over the derived roster.
// ABOUTME: Filtering, KPIs, top-k, descriptive stats, options and snapshot listing.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/report"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_students",
		Description: "List students matching optional blood type, hair color, neighborhood, age and height filters",
	}, s.handleListStudents)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_kpis",
		Description: "Count and mean age, height, weight and BMI of the filtered students",
	}, s.handleGetKPIs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "top_students",
		Description: "Top students ranked by height, weight, bmi or age (descending, absent values last)",
	}, s.handleTopStudents)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "describe",
		Description: "Descriptive statistics (count, mean, std, quartiles) of height, weight and BMI",
	}, s.handleDescribe)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "filter_options",
		Description: "Selectable blood types, hair colors and neighborhoods plus the data's age and height ranges",
	}, s.handleFilterOptions)

	if s.repo != nil {
		mcp.AddTool(s.mcpServer, &mcp.Tool{
			Name:        "list_snapshots",
			Description: "List archived roster snapshots, newest first",
		}, s.handleListSnapshots)
	}
}

// Tool input/output types

type filterInput struct {
	BloodTypes    []string `json:"blood_types,omitempty" jsonschema:"Allowed blood types (RH); empty uses the profile default"`
	HairColors    []string `json:"hair_colors,omitempty" jsonschema:"Allowed hair colors; empty uses the profile default"`
	Neighborhoods []string `json:"neighborhoods,omitempty" jsonschema:"Allowed neighborhoods; empty uses the profile default"`
	AgeMin        *float64 `json:"age_min,omitempty" jsonschema:"Minimum age in years (0-120)"`
	AgeMax        *float64 `json:"age_max,omitempty" jsonschema:"Maximum age in years (0-120)"`
	HeightMin     *float64 `json:"height_min,omitempty" jsonschema:"Minimum height in cm (0-250)"`
	HeightMax     *float64 `json:"height_max,omitempty" jsonschema:"Maximum height in cm (0-250)"`
}

type listStudentsInput struct {
	filterInput
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default all)"`
}

type studentsOutput struct {
	Count    int             `json:"count"`
	Filter   string          `json:"filter"`
	Students []report.Record `json:"students"`
}

type kpisOutput struct {
	Filter string      `json:"filter"`
	KPIs   filter.KPIs `json:"kpis"`
}

type topStudentsInput struct {
	filterInput
	Key string `json:"key" jsonschema:"Sort key: height, weight, bmi or age"`
	K   int    `json:"k,omitempty" jsonschema:"Number of students (default 5)"`
}

type describeOutput struct {
	Filter string          `json:"filter"`
	Stats  []filter.Stats  `json:"stats"`
	BMI    []filter.Bucket `json:"bmi_distribution"`
}

type emptyInput struct{}

type snapshotSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SourcePath string `json:"source_path,omitempty"`
	Rows       int    `json:"rows"`
	ImportedAt string `json:"imported_at"`
}

type snapshotsOutput struct {
	Snapshots []snapshotSummary `json:"snapshots"`
}

// criteria starts from the profile default and applies explicit overrides.
func (s *Server) criteria(in filterInput) (filter.Criteria, error) {
	c := s.report.DefaultCriteria()
	if len(in.BloodTypes) > 0 {
		c = c.WithSelection(models.FieldBloodType, in.BloodTypes)
	}
	if len(in.HairColors) > 0 {
		c = c.WithSelection(models.FieldHairColor, in.HairColors)
	}
	if len(in.Neighborhoods) > 0 {
		c = c.WithSelection(models.FieldNeighborhood, in.Neighborhoods)
	}
	if in.AgeMin != nil {
		c.Age.Min = *in.AgeMin
	}
	if in.AgeMax != nil {
		c.Age.Max = *in.AgeMax
	}
	if in.HeightMin != nil {
		c.Height.Min = *in.HeightMin
	}
	if in.HeightMax != nil {
		c.Height.Max = *in.HeightMax
	}
	return c, c.Validate()
}

func (s *Server) view(in filterInput) (*report.View, error) {
	c, err := s.criteria(in)
	if err != nil {
		return nil, err
	}
	return s.report.View(c)
}

// Tool handlers

func (s *Server) handleListStudents(ctx context.Context, req *mcp.CallToolRequest, input listStudentsInput) (*mcp.CallToolResult, studentsOutput, error) {
	v, err := s.view(input.filterInput)
	if err != nil {
		return nil, studentsOutput{}, err
	}

	rows := v.Table.Students
	if input.Limit > 0 && input.Limit < len(rows) {
		rows = rows[:input.Limit]
	}
	s.logger.Debug("list_students", zap.String("filter", v.Criteria.Summary()), zap.Int("matched", v.Table.Len()))

	return nil, studentsOutput{
		Count:    v.Table.Len(),
		Filter:   v.Criteria.Summary(),
		Students: report.Records(rows),
	}, nil
}

func (s *Server) handleGetKPIs(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, kpisOutput, error) {
	v, err := s.view(input)
	if err != nil {
		return nil, kpisOutput{}, err
	}
	return nil, kpisOutput{Filter: v.Criteria.Summary(), KPIs: v.KPIs}, nil
}

func (s *Server) handleTopStudents(ctx context.Context, req *mcp.CallToolRequest, input topStudentsInput) (*mcp.CallToolResult, studentsOutput, error) {
	key, err := filter.ParseSortKey(input.Key)
	if err != nil {
		return nil, studentsOutput{}, err
	}
	if input.K <= 0 {
		input.K = 5
	}

	v, err := s.view(input.filterInput)
	if err != nil {
		return nil, studentsOutput{}, err
	}
	top := v.Top(key, input.K)

	return nil, studentsOutput{
		Count:    top.Len(),
		Filter:   fmt.Sprintf("%s; top %d by %s", v.Criteria.Summary(), input.K, key),
		Students: report.Records(top.Students),
	}, nil
}

func (s *Server) handleDescribe(ctx context.Context, req *mcp.CallToolRequest, input filterInput) (*mcp.CallToolResult, describeOutput, error) {
	v, err := s.view(input)
	if err != nil {
		return nil, describeOutput{}, err
	}
	return nil, describeOutput{
		Filter: v.Criteria.Summary(),
		Stats:  v.Describe(),
		BMI:    filter.BMIHistogram(v.Table.Students),
	}, nil
}

func (s *Server) handleFilterOptions(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, report.FilterOptions, error) {
	return nil, s.report.FilterOptions(), nil
}

func (s *Server) handleListSnapshots(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, snapshotsOutput, error) {
	snapshots, err := s.repo.ListSnapshots(20)
	if err != nil {
		return nil, snapshotsOutput{}, fmt.Errorf("failed to list snapshots: %w", err)
	}

	out := snapshotsOutput{Snapshots: make([]snapshotSummary, 0, len(snapshots))}
	for _, snap := range snapshots {
		out.Snapshots = append(out.Snapshots, snapshotSummary{
			ID:         snap.ShortID(),
			Name:       snap.Name,
			SourcePath: snap.SourcePath,
			Rows:       snap.RowCount,
			ImportedAt: snap.ImportedAt.Format("2006-01-02 15:04"),
		})
	}
	return nil, out, nil
}
