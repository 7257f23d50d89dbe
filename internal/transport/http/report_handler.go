package http

import (
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"retailreports/internal/config"
	apierrors "retailreports/internal/errors"
	appmw "retailreports/internal/middleware"
	"retailreports/internal/validation"
	"retailreports/pkg/contracts/domain"
)

// ReportHandler serves report exports, downloads and export history
type ReportHandler struct {
	service      ReportServiceInterface
	validation   *appmw.ValidationMiddleware
	query        *appmw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler with RFC 7807 error handling
func NewReportHandler(service ReportServiceInterface, validator *appmw.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validation:   validator,
		query:        appmw.NewQueryParamValidator(errorHandler),
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes, mounted under /api/reports
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(appmw.ContentTypeValidator(h.errorHandler, "application/json"))
		r.Use(h.validation.ValidateRequest)
		r.Post("/exports", h.ExportAll)
		r.Post("/exports/{format}", h.ExportFormat)
	})

	r.Get("/files/{name}", h.DownloadFile)
	r.Get("/history", h.History)

	return r
}

// exportAllQuery is the validated form of ?formats=pdf,csv
type exportAllQuery struct {
	Formats []string `json:"formats" validate:"omitempty,unique,dive,oneof=pdf document excel xlsx workbook csv"`
}

func (h *ReportHandler) decodeSnapshot(w http.ResponseWriter, r *http.Request) (*domain.AnalyticsSnapshot, bool) {
	var snapshot domain.AnalyticsSnapshot
	if err := render.DecodeJSON(r.Body, &snapshot); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return nil, false
	}
	return &snapshot, true
}

// ExportFormat handles POST /api/reports/exports/{format}
func (h *ReportHandler) ExportFormat(w http.ResponseWriter, r *http.Request) {
	format, ok := domain.ParseReportFormat(chi.URLParam(r, "format"))
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrUnsupportedFormat)
		return
	}

	snapshot, ok := h.decodeSnapshot(w, r)
	if !ok {
		return
	}

	h.logger.InfoContext(r.Context(), "export requested",
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("format", string(format)),
	)

	artifact, err := h.service.Export(r.Context(), format, snapshot)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   artifact,
	})
}

// ExportAll handles POST /api/reports/exports?formats=pdf,excel
func (h *ReportHandler) ExportAll(w http.ResponseWriter, r *http.Request) {
	q := exportAllQuery{}
	if raw := r.URL.Query().Get("formats"); raw != "" {
		q.Formats = strings.Split(raw, ",")
	}
	if err := h.validation.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	formats := make([]domain.ReportFormat, 0, len(q.Formats))
	for _, name := range q.Formats {
		format, _ := domain.ParseReportFormat(name)
		formats = append(formats, format)
	}

	snapshot, ok := h.decodeSnapshot(w, r)
	if !ok {
		return
	}

	artifacts, err := h.service.ExportAll(r.Context(), formats, snapshot)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   artifacts,
		"count":  len(artifacts),
	})
}

// DownloadFile handles GET /api/reports/files/{name}
func (h *ReportHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !validation.IsSafeFileName(name) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("name", "name must be a plain file name"))
		return
	}

	rc, obj, err := h.service.Open(r.Context(), name)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer rc.Close()

	format, _ := domain.ParseReportFormat(strings.TrimPrefix(path.Ext(name), "."))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		// Headers are already sent
		h.logger.WarnContext(r.Context(), "download interrupted",
			slog.String("file_name", name),
			slog.String("error", err.Error()))
	}
}

// History handles GET /api/reports/history?limit=N
func (h *ReportHandler) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.query.ValidateInt(w, r, "limit", 1, config.MaxHistoryLimit, config.DefaultHistoryLimit)
	if !ok {
		return
	}

	artifacts, err := h.service.History(r.Context(), limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   artifacts,
		"count":  len(artifacts),
	})
}
