package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"leadgen-backend/internal/domain"
	"leadgen-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	exportBatchSize = 500
)

type adminUsecase struct {
	repo domain.SubmissionRepository
}

func NewAdminUsecase(repo domain.SubmissionRepository) domain.AdminUsecase {
	return &adminUsecase{repo: repo}
}

// List returns one page of submissions of kind, newest first
func (u *adminUsecase) List(ctx context.Context, kind domain.Kind, limit, offset int) (*domain.Page, error) {
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := u.repo.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to list %s submissions: %w", kind, err))
	}
	if records == nil {
		records = []domain.Record{}
	}

	return &domain.Page{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

// Get returns a single submission
func (u *adminUsecase) Get(ctx context.Context, kind domain.Kind, id string) (domain.Record, error) {
	rec, err := u.repo.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Submission not found")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to fetch %s submission: %w", kind, err))
	}
	return rec, nil
}

// Export renders every submission of kind as an XLSX workbook
func (u *adminUsecase) Export(ctx context.Context, kind domain.Kind) ([]byte, error) {
	var all []domain.Record
	for offset := 0; ; offset += exportBatchSize {
		batch, total, err := u.repo.List(ctx, kind, exportBatchSize, offset)
		if err != nil {
			return nil, apperror.Internal(fmt.Errorf("failed to load %s submissions: %w", kind, err))
		}
		all = append(all, batch...)
		if len(batch) < exportBatchSize || int64(len(all)) >= total {
			break
		}
	}

	data, err := exportExcel(kind, all)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

// exportExcel writes one header row plus one row per record
func exportExcel(kind domain.Kind, records []domain.Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := exportSheetName(kind)
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	columns := domain.ExportColumns(kind)
	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, rec := range records {
		for colIdx, value := range rec.ExportRow() {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if t, ok := value.(time.Time); ok {
				value = t.UTC().Format(time.RFC3339)
			}
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func exportSheetName(kind domain.Kind) string {
	switch kind {
	case domain.KindContact:
		return "Contacts"
	case domain.KindBookCall:
		return "Call Bookings"
	case domain.KindOrder:
		return "Orders"
	}
	return "Submissions"
}

// ExportFilename is the download name for an export taken at t
func ExportFilename(kind domain.Kind, t time.Time) string {
	return fmt.Sprintf("%s_submissions_%s.xlsx", kind.Collection(), t.Format("20060102_150405"))
}
