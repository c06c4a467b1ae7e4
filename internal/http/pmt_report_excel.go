package httpapi

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jagoanbunda/jagoanbunda-data/internal/domain"
	"github.com/jagoanbunda/jagoanbunda-data/internal/pmt"

	"github.com/xuri/excelize/v2"
)

const pmtReportSheet = "Laporan PMT"

// PmtReportExportHeader is the header row of the report export.
var PmtReportExportHeader = []string{
	"No",
	"Nama Anak",
	"Nama Orang Tua",
	"Menu",
	"Tanggal Jadwal",
	"Porsi Dikonsumsi",
	"Persentase",
	"Catatan",
	"Tanggal Dicatat",
}

var pmtReportColumnWidths = []float64{6, 25, 25, 30, 16, 20, 12, 35, 20}

// GeneratePmtReportExport renders the report rows into an xlsx workbook.
func GeneratePmtReportExport(rows []*domain.PmtReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(pmtReportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DEEBC5"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetSheetRow(pmtReportSheet, "A1", &PmtReportExportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(PmtReportExportHeader), 1)
	if err := f.SetCellStyle(pmtReportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		notes := "-"
		if row.Notes != nil && *row.Notes != "" {
			notes = *row.Notes
		}
		values := []any{
			i + 1,
			row.ChildName,
			row.ParentName,
			row.MenuName,
			row.ScheduledDate.Format("02/01/2006"),
			pmt.Label(row.Portion),
			strconv.Itoa(pmt.Percent(row.Portion)) + "%",
			notes,
			row.LoggedAt.Format("02/01/2006 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(pmtReportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	for i, width := range pmtReportColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(pmtReportSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
