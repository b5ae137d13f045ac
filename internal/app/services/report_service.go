package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/app/repositories"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// ReportService defines the interface for building reports
type ReportService interface {
	Build(ctx context.Context, reportType models.ReportType, params models.ReportParams) (*models.TabularResult, error)
	Parse(name string) (models.ReportType, error)
}

// reportServiceImpl implements the ReportService interface
type reportServiceImpl struct {
	reportRepo *repositories.ReportRepository
	logger     zerolog.Logger
}

// NewReportService creates a new report service instance
func NewReportService(reportRepo *repositories.ReportRepository, logger zerolog.Logger) ReportService {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Build runs a report. An empty result is not an error.
func (s *reportServiceImpl) Build(ctx context.Context, reportType models.ReportType, params models.ReportParams) (*models.TabularResult, error) {
	params.RollNumber = strings.TrimSpace(params.RollNumber)
	params.Since = strings.TrimSpace(params.Since)
	params.Until = strings.TrimSpace(params.Until)

	result, err := s.reportRepo.Build(ctx, reportType, params)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Str("report", string(reportType)).Int("rows", len(result.Rows)).Msg("Report built")
	return result, nil
}

// Parse resolves a report name or title
func (s *reportServiceImpl) Parse(name string) (models.ReportType, error) {
	rt, err := models.ParseReportType(name)
	if err != nil {
		return "", validation.Field("report_type", err.Error())
	}
	return rt, nil
}
