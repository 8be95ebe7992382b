// Command analyzer turns a lamp sales export into the price-band and brand
// analysis report.
//
//	analyzer -in data/lamps.xlsx -out output -format xlsx -locale zh
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"salesanalyzer/internal/config"
	apperrors "salesanalyzer/internal/errors"
	"salesanalyzer/internal/infrastructure"
	"salesanalyzer/internal/services"
	"salesanalyzer/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command line flags. Unset flags leave the configuration
// untouched.
type options struct {
	configFile string
	input      string
	output     string
	format     string
	locale     string
	charts     bool
	version    bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("analyzer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file (defaults to config.yaml or $SALES_CONFIG_FILE)")
	fs.StringVar(&opts.input, "in", "", "sales export (.xlsx or .csv) or a directory holding one (defaults to paths.input_dir)")
	fs.StringVar(&opts.output, "out", "", "output directory (defaults to paths.output_dir)")
	fs.StringVar(&opts.format, "format", "", "report format: xlsx or csv")
	fs.StringVar(&opts.locale, "locale", "", "report header language: en or zh")
	fs.BoolVar(&opts.charts, "charts", true, "also write the chart workbook")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// loadConfig loads the configuration and applies the flags on top
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFile(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.output != "" {
		cfg.Paths.OutputDir = opts.output
	}
	if opts.format != "" {
		cfg.Report.Format = opts.format
	}
	if opts.locale != "" {
		cfg.Report.Locale = opts.locale
	}
	if opts.set["charts"] {
		cfg.Report.Charts = opts.charts
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "analyzer: %v\n", err)
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: %s\n", describe(err))
		return 1
	}

	// logs go to stderr so stdout only carries the run summary
	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: cannot initialize logging: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()
	slog.SetDefault(logger)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: cannot initialize telemetry: %v\n", err)
		return 1
	}
	defer func() {
		if err := providers.Shutdown(context.Background()); err != nil {
			logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreateRunMetrics(providers.Meter)
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: cannot create metrics: %v\n", err)
		return 1
	}

	svc, err := services.NewReportService(cfg, logger,
		services.WithTracer(providers.Tracer),
		services.WithMetrics(metrics))
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: %s\n", describe(err))
		return 1
	}

	input := opts.input
	if input == "" {
		input = cfg.Paths.InputDir
	}

	result, err := svc.Run(ctx, services.RunRequest{InputPath: input, OutputDir: cfg.Paths.OutputDir})
	if err != nil {
		fmt.Fprintf(stderr, "analyzer: %s\n", describe(err))
		return 1
	}

	fmt.Fprintf(stdout, "analyzed %d records from %s\n", result.RecordCount, result.Source)
	fmt.Fprintf(stdout, "report: %s\n", result.ReportPath)
	if result.ChartsPath != "" {
		fmt.Fprintf(stdout, "charts: %s\n", result.ChartsPath)
	}
	return 0
}

// describe renders err as one human readable line
func describe(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}

	msg := appErr.Error()
	if row, ok := appErr.Context["row"]; ok {
		msg = fmt.Sprintf("%s (row %v", msg, row)
		if col, ok := appErr.Context["column"]; ok {
			msg = fmt.Sprintf("%s, column %v", msg, col)
		}
		msg += ")"
	}
	return msg
}
