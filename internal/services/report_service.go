package services

import (
	"context"
	"io"
	"time"

	"crmdash/internal/models"
	"crmdash/internal/pdf"
	"crmdash/internal/repositories"
)

type ReportService struct {
	Deals DealRepository
	Docs  pdf.Generator
	now   func() time.Time
}

func NewReportService(deals DealRepository, docs pdf.Generator) *ReportService {
	return &ReportService{Deals: deals, Docs: docs, now: time.Now}
}

// PipelineReport snapshots the board and its summary from one deal fetch.
func (s *ReportService) PipelineReport(ctx context.Context) (pdf.PipelineReport, error) {
	deals, _, err := s.Deals.List(ctx, repositories.ListParams{})
	if err != nil {
		return pdf.PipelineReport{}, err
	}
	return pdf.PipelineReport{
		GeneratedAt: s.now(),
		Columns:     BuildBoard(deals, models.DealFilter{}),
		Summary:     Summarize(deals),
	}, nil
}

func (s *ReportService) WritePipeline(ctx context.Context, w io.Writer) error {
	r, err := s.PipelineReport(ctx)
	if err != nil {
		return err
	}
	return s.Docs.WritePipelineReport(w, r)
}

func (s *ReportService) SavePipeline(ctx context.Context, filename string) (string, error) {
	r, err := s.PipelineReport(ctx)
	if err != nil {
		return "", err
	}
	return s.Docs.SavePipelineReport(r, filename)
}
