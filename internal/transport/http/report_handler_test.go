package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salesanalyzer/internal/config"
	apierrors "salesanalyzer/internal/errors"
	"salesanalyzer/internal/middleware"
	"salesanalyzer/internal/services"
	"salesanalyzer/internal/shared/testutil"
)

func newReportRouter(t *testing.T, svc ReportServiceInterface, maxBytes int64) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewReportHandler(svc, maxBytes, logger, apierrors.NewErrorHandler(logger, false))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/api/reports", handler.Routes())
	return r
}

func newReportService(t *testing.T) *services.ReportService {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Report.LogSummary = false
	logger, _ := testutil.NewTestLogger(t)
	svc, err := services.NewReportService(cfg, logger)
	require.NoError(t, err)
	return svc
}

func uploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/reports", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func problemOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func sampleWorkbook(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(testutil.WriteSampleWorkbook(t))
	require.NoError(t, err)
	return data
}

func TestReportHandler_Download(t *testing.T) {
	router := newReportRouter(t, newReportService(t), 1<<20)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, UploadField, "lamps.xlsx", sampleWorkbook(t)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename=sales_analysis_report.xlsx`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.NotEmpty(t, rec.Header().Get("X-Run-ID"))

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Analysis")
	require.NoError(t, err)
	assert.Greater(t, len(rows), 1)
}

func TestReportHandler_JSON(t *testing.T) {
	router := newReportRouter(t, newReportService(t), 1<<20)

	req := uploadRequest(t, UploadField, "lamps.xlsx", sampleWorkbook(t))
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		RunID       string `json:"run_id"`
		Source      string `json:"source"`
		RecordCount int    `json:"record_count"`
		Report      struct {
			Sections []struct {
				Kind string `json:"kind"`
			} `json:"sections"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lamps.xlsx", resp.Source)
	assert.Equal(t, len(testutil.SampleRecords()), resp.RecordCount)
	assert.NotEmpty(t, resp.Report.Sections)
	assert.Equal(t, rec.Header().Get("X-Run-ID"), resp.RunID)
}

func TestReportHandler_Errors(t *testing.T) {
	header := "商品标题,商品链接,销售额,销量,品牌,价格\n"

	tests := []struct {
		name     string
		field    string
		filename string
		content  []byte
		maxBytes int64
		status   int
		code     string
	}{
		{"missing field", "upload", "lamps.csv", []byte(header), 1 << 20, http.StatusBadRequest, "VALIDATION"},
		{"wrong extension", UploadField, "lamps.pdf", []byte("%PDF"), 1 << 20, http.StatusBadRequest, "VALIDATION"},
		{"too large", UploadField, "lamps.csv", bytes.Repeat([]byte("x"), 2048), 1024, http.StatusBadRequest, "VALIDATION"},
		{"negative price", UploadField, "lamps.csv", []byte(header + "A,l,1,1,B,-5\n"), 1 << 20, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"missing columns", UploadField, "lamps.csv", []byte("title,brand\nA,B\n"), 1 << 20, http.StatusUnprocessableEntity, "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newReportRouter(t, newReportService(t), tt.maxBytes)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, tt.field, tt.filename, tt.content))

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			problem := problemOf(t, rec)
			assert.Equal(t, tt.code, problem["error_code"])
			assert.NotEmpty(t, problem["trace_id"])
		})
	}
}

func TestReportHandler_StageInProblem(t *testing.T) {
	router := newReportRouter(t, newReportService(t), 1<<20)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, UploadField, "lamps.csv",
		[]byte("商品标题,商品链接,销售额,销量,品牌,价格\nA,l,abc,1,B,5\n")))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	problem := problemOf(t, rec)
	assert.Equal(t, "load", problem["stage"])
	details, ok := problem["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "sales_amount", details["column"])
}

func TestReportHandler_RejectsJSONBody(t *testing.T) {
	router := newReportRouter(t, newReportService(t), 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/api/reports", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

type failingService struct{ err error }

func (s failingService) RunReader(context.Context, io.Reader, string) (*services.RunResult, []byte, error) {
	return nil, nil, s.err
}

func (s failingService) FileName() string { return "report.xlsx" }

func TestReportHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
	}{
		{"export failure", apierrors.NewExportError("disk full", nil).WithStage("export"), http.StatusInternalServerError, apierrors.TypeExportFailed},
		{"canceled", context.Canceled, http.StatusGatewayTimeout, apierrors.TypeTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newReportRouter(t, failingService{err: tt.err}, 1<<20)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, UploadField, "lamps.csv", []byte("x")))

			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.typ, problemOf(t, rec)["type"])
		})
	}
}
