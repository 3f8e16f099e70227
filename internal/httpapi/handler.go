// ABOUTME: HTTP API over one derived roster: JSON views, downloads and charts.
// ABOUTME: Every request filters the shared read-only table into a fresh view.
package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/chart"
	"github.com/harperreed/roster/internal/export"
	"github.com/harperreed/roster/internal/filter"
	"github.com/harperreed/roster/internal/models"
	"github.com/harperreed/roster/internal/report"
)

// Handler serves a report over HTTP.
type Handler struct {
	report *report.Report
	logger *zap.Logger
}

// NewHandler creates a handler for rep.
func NewHandler(rep *report.Report, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		report: rep,
		logger: logger.With(zap.String("component", "httpapi")),
	}
}

// Routes returns the full router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.NotFound(h.notFound)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/students", h.GetStudents)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/summary", h.GetSummary)
		r.Get("/options", h.GetOptions)
		r.Get("/top/{key}", h.GetTop)
	})

	r.Get("/download/top5/{key}.csv", h.DownloadTop5)
	r.Get("/download/students.xlsx", h.DownloadSpreadsheet)
	r.Get("/charts/{name}.png", h.GetChart)

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// criteria parses filter query parameters on top of the profile default.
func (h *Handler) criteria(r *http.Request) (filter.Criteria, error) {
	c := h.report.DefaultCriteria()
	q := r.URL.Query()

	params := []struct {
		name  string
		field models.Field
	}{
		{"rh", models.FieldBloodType},
		{"hair", models.FieldHairColor},
		{"barrio", models.FieldNeighborhood},
	}
	for _, p := range params {
		if vs := q[p.name]; len(vs) > 0 {
			c = c.WithSelection(p.field, vs)
		}
	}

	bounds := []struct {
		name string
		dst  *float64
	}{
		{"age_min", &c.Age.Min},
		{"age_max", &c.Age.Max},
		{"height_min", &c.Height.Min},
		{"height_max", &c.Height.Max},
	}
	for _, b := range bounds {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s must be a number", errBadRequest, b.name)
		}
		*b.dst = v
	}

	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return c, nil
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) (*report.View, bool) {
	c, err := h.criteria(r)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	v, err := h.report.View(c)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return v, true
}

// StudentsResponse is the body of GET /api/students and /api/top/{key}.
type StudentsResponse struct {
	Count    int             `json:"count"`
	Filter   string          `json:"filter"`
	Students []report.Record `json:"students"`
}

// GetStudents handles GET /api/students.
func (h *Handler) GetStudents(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, StudentsResponse{
		Count:    v.Table.Len(),
		Filter:   v.Criteria.Summary(),
		Students: report.Records(v.Table.Students),
	})
}

// KPIsResponse is the body of GET /api/kpis.
type KPIsResponse struct {
	Filter string      `json:"filter"`
	KPIs   filter.KPIs `json:"kpis"`
}

// GetKPIs handles GET /api/kpis.
func (h *Handler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, KPIsResponse{Filter: v.Criteria.Summary(), KPIs: v.KPIs})
}

// SummaryResponse is the body of GET /api/summary.
type SummaryResponse struct {
	Profile       string          `json:"profile"`
	Title         string          `json:"title"`
	Filter        string          `json:"filter"`
	KPIs          filter.KPIs     `json:"kpis"`
	Stats         []filter.Stats  `json:"stats"`
	BMI           []filter.Bucket `json:"bmi_distribution"`
	Ages          []filter.Bucket `json:"age_distribution"`
	ParseFailures int             `json:"parse_failures"`
}

// GetSummary handles GET /api/summary.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, SummaryResponse{
		Profile:       h.report.Profile.Name,
		Title:         h.report.Profile.Title,
		Filter:        v.Criteria.Summary(),
		KPIs:          v.KPIs,
		Stats:         v.Describe(),
		BMI:           filter.BMIHistogram(v.Table.Students),
		Ages:          filter.AgeHistogram(v.Table.Students),
		ParseFailures: h.report.Failures.Total(),
	})
}

// GetOptions handles GET /api/options.
func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.report.FilterOptions())
}

// GetTop handles GET /api/top/{key}?k=5.
func (h *Handler) GetTop(w http.ResponseWriter, r *http.Request) {
	key, err := filter.ParseSortKey(chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	k := 5
	if raw := r.URL.Query().Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 0 {
			h.writeError(w, r, fmt.Errorf("%w: k must be a non-negative integer", errBadRequest))
			return
		}
	}

	v, ok := h.view(w, r)
	if !ok {
		return
	}
	top := v.Top(key, k)
	render.JSON(w, r, StudentsResponse{
		Count:    top.Len(),
		Filter:   v.Criteria.Summary(),
		Students: report.Records(top.Students),
	})
}

// DownloadTop5 handles GET /download/top5/{key}.csv.
func (h *Handler) DownloadTop5(w http.ResponseWriter, r *http.Request) {
	key, err := filter.ParseSortKey(chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, v.Top(key, 5), export.CSVOptions{}); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.attachment(w, export.Top5Filename(key), export.CSVMIME, buf.Bytes())
}

// DownloadSpreadsheet handles GET /download/students.xlsx.
func (h *Handler) DownloadSpreadsheet(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, v.Table); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.attachment(w, h.report.Profile.SpreadsheetFilename, export.SpreadsheetMIME, buf.Bytes())
}

// GetChart handles GET /charts/{name}.png. Only the profile's panels are served.
func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	panel, err := chart.ParsePanel(chi.URLParam(r, "name"))
	if err != nil || !h.hasPanel(panel) {
		h.notFound(w, r)
		return
	}
	v, ok := h.view(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, panel, v.Table.Students); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) hasPanel(p chart.Panel) bool {
	for _, candidate := range h.report.Profile.Panels() {
		if candidate == p {
			return true
		}
	}
	return false
}

func (h *Handler) attachment(w http.ResponseWriter, filename, mime string, body []byte) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write(body)
}
