package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"salesanalyzer/internal/analysis"
	"salesanalyzer/internal/config"
	"salesanalyzer/internal/dataprocessing"
	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/internal/exporter"
	"salesanalyzer/internal/files"
	"salesanalyzer/internal/infrastructure"
	"salesanalyzer/internal/validation"
	"salesanalyzer/pkg/contracts/domain"
)

// Pipeline stages, in run order
const (
	StageLoad     = "load"
	StageBucket   = "bucket"
	StageAssemble = "assemble"
	StageRender   = "render"
	StageExport   = "export"
)

// RunRequest names the input of one run and where its outputs go
type RunRequest struct {
	// InputPath is a sales export file or a directory holding one
	InputPath string
	// OutputDir overrides the configured output directory
	OutputDir string
}

// RunResult describes a finished run
type RunResult struct {
	RunID       string
	Source      string
	RecordCount int
	ReportPath  string
	ChartsPath  string
	ContentType string
	Duration    time.Duration
	Report      *domain.Report
}

// ReportService runs the load, bucket, assemble, render and export pipeline.
// A run is single threaded; concurrent runs share no mutable state.
type ReportService struct {
	cfg       config.ReportConfig
	outputDir string
	loader    *dataprocessing.Loader
	bucketer  *analysis.Bucketer
	assembler *analysis.Assembler
	exporter  exporter.Exporter
	discovery *files.Discovery
	validator *validation.FileValidator
	tracer    trace.Tracer
	metrics   *infrastructure.RunMetrics
	logger    *slog.Logger
}

// Option configures a ReportService
type Option func(*ReportService)

// WithTracer sets the tracer used for run and stage spans
func WithTracer(tracer trace.Tracer) Option {
	return func(s *ReportService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the run metric instruments
func WithMetrics(metrics *infrastructure.RunMetrics) Option {
	return func(s *ReportService) {
		s.metrics = metrics
	}
}

// WithBucketer replaces the default price buckets
func WithBucketer(bucketer *analysis.Bucketer) Option {
	return func(s *ReportService) {
		if bucketer != nil {
			s.bucketer = bucketer
		}
	}
}

// NewReportService creates the report pipeline from configuration
func NewReportService(cfg *config.Config, logger *slog.Logger, opts ...Option) (*ReportService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "report_service")

	exp, err := exporter.New(cfg.Report.Format, exporter.Options{
		Locale:    cfg.Report.Locale,
		SheetName: cfg.Report.SheetName,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	s := &ReportService{
		cfg:       cfg.Report,
		outputDir: cfg.Paths.OutputDir,
		loader:    dataprocessing.NewLoader(logger, cfg.Report.InputSheet),
		bucketer:  analysis.DefaultBucketer(),
		exporter:  exp,
		discovery: files.NewDiscovery("", logger),
		validator: validation.NewFileValidator(logger),
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.assembler = analysis.NewAssembler(logger, s.bucketer, analysis.OptionsFromConfig(cfg.Report))

	logger.Info("ReportService initialized",
		slog.String("format", cfg.Report.Format),
		slog.String("locale", cfg.Report.Locale),
		slog.Bool("charts", cfg.Report.Charts),
		slog.String("output_dir", cfg.Paths.OutputDir))
	return s, nil
}

// Run analyses the export named by req and writes the report, plus the
// chart workbook when charts are enabled. Errors are AppErrors tagged with
// the failing stage.
func (s *ReportService) Run(ctx context.Context, req RunRequest) (result *RunResult, err error) {
	ctx, result, finish := s.begin(ctx, "report.run")
	defer func() { finish(err) }()

	outDir := req.OutputDir
	if outDir == "" {
		outDir = s.outputDir
	}

	var set *domain.RecordSet
	err = s.stage(ctx, StageLoad, func(ctx context.Context) error {
		input, err := s.discovery.ResolveInput(req.InputPath)
		if err != nil {
			return err
		}
		if err := s.validator.ValidateInputFile(input); err != nil {
			return err
		}
		set, err = s.loader.LoadRecords(ctx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err = s.stage(ctx, StageExport, func(context.Context) error {
		return s.validator.ValidateOutputDirectory(outDir)
	}); err != nil {
		return nil, err
	}

	report, err := s.analyse(ctx, set)
	if err != nil {
		return nil, err
	}
	result.Source = set.Source
	result.RecordCount = report.RecordCount
	result.Report = report
	result.ContentType = s.exporter.ContentType()

	if s.cfg.Charts {
		result.ChartsPath = filepath.Join(outDir, s.cfg.ChartsFileName)
		if err = s.stage(ctx, StageRender, func(ctx context.Context) error {
			charts := analysis.BuildCharts(report, s.bucketer.Labels())
			return exporter.NewChartRenderer(s.logger, result.ChartsPath).Render(ctx, charts)
		}); err != nil {
			return nil, err
		}
	}

	result.ReportPath = filepath.Join(outDir, s.cfg.OutputFileName())
	if err = s.stage(ctx, StageExport, func(ctx context.Context) error {
		return s.exporter.Export(ctx, report, result.ReportPath)
	}); err != nil {
		s.discardCharts(ctx, result.ChartsPath)
		return nil, err
	}

	return result, nil
}

// discardCharts removes the chart workbook of a run whose report could not
// be written
func (s *ReportService) discardCharts(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.WarnContext(ctx, "cannot remove chart workbook of failed run",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// RunReader analyses an uploaded export and returns the encoded report.
// name selects the parser by its extension. Nothing is written to disk.
func (s *ReportService) RunReader(ctx context.Context, r io.Reader, name string) (result *RunResult, body []byte, err error) {
	ctx, result, finish := s.begin(ctx, "report.run_upload")
	defer func() { finish(err) }()

	var set *domain.RecordSet
	err = s.stage(ctx, StageLoad, func(ctx context.Context) error {
		switch strings.ToLower(filepath.Ext(name)) {
		case dataprocessing.ExtXLSX:
			set, err = s.loader.ParseWorkbook(ctx, r, name)
		case dataprocessing.ExtCSV:
			set, err = s.loader.ParseCSV(ctx, r, name)
		default:
			err = apperrors.NewInvalidInputError(fmt.Sprintf("unsupported upload %q", name), nil)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	report, err := s.analyse(ctx, set)
	if err != nil {
		return nil, nil, err
	}
	result.Source = set.Source
	result.RecordCount = report.RecordCount
	result.Report = report
	result.ContentType = s.exporter.ContentType()

	var buf bytes.Buffer
	if err = s.stage(ctx, StageExport, func(ctx context.Context) error {
		if err := s.exporter.Write(ctx, &buf, report); err != nil {
			return apperrors.NewExportError("cannot encode report", err)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	return result, buf.Bytes(), nil
}

// FileName is the download name of a report produced by RunReader
func (s *ReportService) FileName() string {
	return s.cfg.OutputFileName()
}

// analyse runs the bucket and assemble stages
func (s *ReportService) analyse(ctx context.Context, set *domain.RecordSet) (*domain.Report, error) {
	s.metrics.RecordRecordsLoaded(ctx, len(set.Records))

	var bucketed []domain.BucketedRecord
	err := s.stage(ctx, StageBucket, func(context.Context) error {
		var err error
		bucketed, err = s.bucketer.BucketAll(set.Records)
		return err
	})
	if err != nil {
		return nil, err
	}

	var report *domain.Report
	err = s.stage(ctx, StageAssemble, func(ctx context.Context) error {
		var err error
		report, err = s.assembler.Assemble(ctx, set.Source, bucketed)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// begin starts the run span and returns the finisher that logs the outcome
// and records the run metrics
func (s *ReportService) begin(ctx context.Context, spanName string) (context.Context, *RunResult, func(error)) {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("report.format", s.cfg.Format),
	))
	start := time.Now()
	result := &RunResult{RunID: runID}

	s.logger.InfoContext(ctx, "report run started", slog.String("run_id", runID))

	return ctx, result, func(err error) {
		result.Duration = time.Since(start)
		s.metrics.RecordRun(ctx, s.cfg.Format, result.Duration, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			s.logger.ErrorContext(ctx, "report run failed",
				slog.String("run_id", runID),
				slog.String("stage", stageOf(err)),
				slog.String("error", err.Error()))
		} else {
			s.logger.InfoContext(ctx, "report run completed",
				slog.String("run_id", runID),
				slog.Int("records", result.RecordCount),
				slog.String("report", result.ReportPath),
				slog.Duration("duration", result.Duration))
		}
		span.End()
	}
}

// stage runs fn inside a span and tags its error with the stage name
func (s *ReportService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "report."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	s.metrics.RecordStage(ctx, name, time.Since(start))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return tagStage(err, name)
	}
	return nil
}

func tagStage(err error, stage string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Stage == "" {
			appErr.WithStage(stage)
		}
		return err
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// stageOf returns the stage an error was tagged with, or ""
func stageOf(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Stage
	}
	return ""
}
