// ABOUTME: MCP resource implementations for the derived roster.
// ABOUTME: Provides roster://summary and roster://students resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/report"
)

const (
	summaryURI  = "roster://summary"
	studentsURI = "roster://students"
)

func (s *Server) registerResources() {
	// roster://summary - KPIs, stats and BMI distribution under the profile default filter
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Roster Summary",
		Description: "Headline KPIs, descriptive statistics and BMI distribution of the roster",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// roster://students - every derived row
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         studentsURI,
		Name:        "Roster Students",
		Description: "All students with derived age, height, weight and BMI",
		MIMEType:    "application/json",
	}, s.handleStudentsResource)
}

// Resource handlers

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	v, err := s.report.View(s.report.DefaultCriteria())
	if err != nil {
		return nil, err
	}

	result := map[string]interface{}{
		"generated_at":     time.Now().Format(time.RFC3339),
		"profile":          s.report.Profile.Name,
		"title":            s.report.Profile.Title,
		"filter":           v.Criteria.Summary(),
		"kpis":             v.KPIs,
		"stats":            v.Describe(),
		"bmi_distribution": filter.BMIHistogram(v.Table.Students),
		"parse_failures":   s.report.Failures.Total(),
	}

	return jsonResource(summaryURI, result)
}

func (s *Server) handleStudentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result := map[string]interface{}{
		"count":    s.report.Table.Len(),
		"students": report.Records(s.report.Table.Students),
	}
	return jsonResource(studentsURI, result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
