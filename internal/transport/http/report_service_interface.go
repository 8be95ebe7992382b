package http

import (
	"context"
	"io"

	"salesanalyzer/internal/services"
)

// ReportServiceInterface is the part of services.ReportService the report
// handler needs
type ReportServiceInterface interface {
	RunReader(ctx context.Context, r io.Reader, name string) (*services.RunResult, []byte, error)
	FileName() string
}
