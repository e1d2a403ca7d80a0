package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/rao305/boilerai-transcript/internal/data/repos"
	"github.com/rao305/boilerai-transcript/internal/pkg/logger"
)

// ExportService renders a transcript record to an xlsx workbook: one sheet of
// entries ordered by term, one summary sheet. Returned as a buffer so the
// handler owns the HTTP headers.
type ExportService interface {
	ExportWorkbook(ctx context.Context, recordID uuid.UUID) (*bytes.Buffer, string, error)
}

type exportService struct {
	log            *logger.Logger
	transcriptRepo repos.TranscriptRepo
}

func NewExportService(transcriptRepo repos.TranscriptRepo, baseLog *logger.Logger) ExportService {
	return &exportService{
		log:            baseLog.With("service", "ExportService"),
		transcriptRepo: transcriptRepo,
	}
}

var entryHeaders = []string{
	"Course", "Title", "Credits", "Grade", "Quality Points",
	"Semester", "Year", "Status", "Match", "Confidence", "Verified", "Classification",
}

func (s *exportService) ExportWorkbook(ctx context.Context, recordID uuid.UUID) (*bytes.Buffer, string, error) {
	record, err := s.transcriptRepo.GetByID(ctx, nil, recordID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const entriesSheet = "Transcript"
	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return nil, "", fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range entryHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(entriesSheet, cell, h); err != nil {
			return nil, "", fmt.Errorf("write header: %w", err)
		}
	}

	for i, e := range record.Entries {
		values := []interface{}{
			e.Code(), e.Title, e.Credits, e.Grade, e.QualityPoints,
			e.Semester, e.Year, e.Status, e.MatchStatus, e.MatchConfidence, e.Verified, e.Classification,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(entriesSheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("write entry row %d: %w", i, err)
			}
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, "", fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Student", record.StudentName},
		{"Program", record.Program},
		{"Cumulative GPA", record.Summary.CumulativeGPA},
		{"Major GPA", record.Summary.MajorGPA},
		{"Credits Attempted", record.Summary.TotalCreditsAttempted},
		{"Credits Earned", record.Summary.TotalCreditsEarned},
		{"Quality Points", record.Summary.TotalQualityPoints},
	}
	for row, pair := range summaryRows {
		for col, v := range pair {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("write summary row %d: %w", row, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serialize workbook: %w", err)
	}
	filename := fmt.Sprintf("transcript-%s.xlsx", record.StudentID)
	return buf, filename, nil
}
