package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// MaxExportRows caps the number of projects in one export
const MaxExportRows = 5000

const exportSheet = "Projects"

var exportHeader = []interface{}{
	"ID", "Name", "Location", "Status", "Start date", "End date",
	"Cost", "Estimated panels", "Customer", "Created at",
}

// ExportService renders project lists as spreadsheets
type ExportService struct {
	projects ProjectStore
}

// NewExportService creates an export service
func NewExportService(projects ProjectStore) *ExportService {
	return &ExportService{projects: projects}
}

// ExportProjects writes the projects matching filter, as seen by principal,
// to an .xlsx workbook
func (s *ExportService) ExportProjects(ctx context.Context, principal access.Principal, filter dto.ProjectFilter) ([]byte, error) {
	filter.Scope = principal.Scope()
	projects, err := s.projects.FindAllFiltered(ctx, filter, MaxExportRows)
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return ProjectsWorkbook(projects)
}

// ProjectsWorkbook renders projects as a single-sheet workbook
func ProjectsWorkbook(projects []models.Project) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(exportSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	for i, p := range projects {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			p.ID,
			p.Name,
			p.Location,
			string(p.Status),
			formatDate(p.StartDate),
			formatDate(p.EndDate),
			p.Cost,
			p.EstimatedPanels,
			customerName(p),
			p.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "A", 38); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "B", "C", 30); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dto.DateLayout)
}

func customerName(p models.Project) string {
	if p.Customer != nil {
		return p.Customer.Name
	}
	return ""
}
