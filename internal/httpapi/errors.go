// ABOUTME: Problem-details error responses for the HTTP API.
// ABOUTME: Maps loader, export, chart and validation failures to status codes.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/harperreed/roster/internal/chart"
	"github.com/harperreed/roster/internal/export"
	"github.com/harperreed/roster/internal/roster"
)

// Problem is an RFC 7807 error body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}

const (
	typeValidation = "/errors/validation"
	typeNotFound   = "/errors/not-found"
	typeNoData     = "/errors/data/not-found"
	typeLoad       = "/errors/data/unreadable"
	typeInternal   = "/errors/internal"
)

// errBadRequest marks malformed query parameters.
var errBadRequest = errors.New("bad request")

func statusFor(err error) (int, string, string) {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, errBadRequest), errors.As(err, &verrs):
		return http.StatusBadRequest, typeValidation, "Invalid request"
	case errors.Is(err, chart.ErrNoData):
		return http.StatusNotFound, typeNoData, "No data"
	case errors.Is(err, roster.ErrLoad):
		return http.StatusUnprocessableEntity, typeLoad, "Unreadable roster"
	case errors.Is(err, export.ErrExport):
		return http.StatusInternalServerError, typeInternal, "Export failed"
	}
	return http.StatusInternalServerError, typeInternal, "Internal error"
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, typ, title := statusFor(err)
	reqID := middleware.GetReqID(r.Context())

	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("path", r.URL.Path),
		zap.String("request_id", reqID),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Debug("request rejected", fields...)
	}

	render.Status(r, status)
	render.JSON(w, r, Problem{
		Type:     typ,
		Title:    title,
		Status:   status,
		Detail:   err.Error(),
		Instance: r.URL.Path,
		TraceID:  reqID,
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, Problem{
		Type:     typeNotFound,
		Title:    "Not found",
		Status:   http.StatusNotFound,
		Instance: r.URL.Path,
		TraceID:  middleware.GetReqID(r.Context()),
	})
}
