package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"devlog-backend/internal/domains/devlog"
)

const exportSheetName = "Logs"

var exportHeaders = []string{
	"ID",
	"Slug",
	"Date",
	"Author ID",
	"Content",
	"Important",
}

// ExportProjectLogs - all logs of the project, oldest first
func (s *logService) ExportProjectLogs(ctx context.Context, projectID uuid.UUID) (*excelize.File, error) {
	p, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.List(ctx, devlog.LogFilter{ProjectID: &p.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}

	f, err := buildLogsExcelFile(logs)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}

func buildLogsExcelFile(logs []devlog.Log) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, err
	}

	// Row 1: Header
	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastHeader, headerStyle)
	}

	// Data rows start at row 2
	for i, l := range logs {
		row := []interface{}{
			l.ID.String(),
			l.Slug,
			l.Date.UTC().Format(time.RFC3339),
			l.AuthorID.String(),
			l.Content,
			yesNo(l.Important),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetColWidth(exportSheetName, "E", "E", 80)

	return f, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
