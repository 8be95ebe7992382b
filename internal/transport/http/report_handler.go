package http

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "salesanalyzer/internal/errors"
	custommw "salesanalyzer/internal/middleware"
	"salesanalyzer/internal/validation"
	"salesanalyzer/pkg/contracts/domain"
)

const (
	// UploadField is the multipart field carrying the sales export
	UploadField = "file"

	// multipartOverhead is allowed on top of the upload limit for the
	// multipart envelope
	multipartOverhead = 64 << 10

	// parseMemory is how much of a form is held in memory before spilling
	// to temporary files
	parseMemory = 8 << 20
)

// ReportHandler turns uploaded sales exports into reports
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *validation.FileValidator
	maxBytes     int64
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// ReportResponse is the JSON rendition of a finished upload run
type ReportResponse struct {
	RunID       string         `json:"run_id"`
	Source      string         `json:"source"`
	RecordCount int            `json:"record_count"`
	DurationMS  int64          `json:"duration_ms"`
	Report      *domain.Report `json:"report"`
}

// NewReportHandler creates a report handler. Uploads larger than maxBytes
// are rejected.
func NewReportHandler(service ReportServiceInterface, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		service:      service,
		validator:    validation.NewFileValidator(logger),
		maxBytes:     maxBytes,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(custommw.ContentTypeValidator("multipart/form-data")).Post("/", h.CreateReport)
	return r
}

// CreateReport handles POST /api/reports.
//
// The multipart field "file" holds an .xlsx or .csv export. The response is
// the report file as an attachment, or the report as JSON when the client
// asks for application/json.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := middleware.GetReqID(ctx)

	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	}
	if err := r.ParseMultipartForm(parseMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.NewAppValidationError("malformed multipart form").
			WithContext("field", UploadField))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewAppValidationError(
			fmt.Sprintf("multipart field %q is required", UploadField)).WithContext("field", UploadField))
		return
	}
	defer file.Close()

	if err := h.validator.ValidateUpload(header.Filename, header.Size, h.maxBytes); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "report upload received",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	result, body, err := h.service.RunReader(ctx, file, header.Filename)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("X-Run-ID", result.RunID)

	if wantsJSON(r) {
		render.JSON(w, r, ReportResponse{
			RunID:       result.RunID,
			Source:      result.Source,
			RecordCount: result.RecordCount,
			DurationMS:  result.Duration.Milliseconds(),
			Report:      result.Report,
		})
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": h.service.FileName(),
	}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to write report response",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
	}
}

// wantsJSON reports whether the Accept header prefers JSON over the file
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
