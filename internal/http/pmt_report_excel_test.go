package httpapi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestGeneratePmtReportExport(t *testing.T) {
	data, err := GeneratePmtReportExport(reportRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{pmtReportSheet}, f.GetSheetList())
	rows, err := f.GetRows(pmtReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, PmtReportExportHeader, rows[0])
	assert.Equal(t, []string{"1", "Budi", "Sari", "Bubur Kacang Hijau", "03/03/2025", "Habis (100%)", "100%", "Dihabiskan bersama kakak", "03/03/2025 12:30"}, rows[1])
	assert.Equal(t, "-", rows[2][7])
	assert.Equal(t, "50%", rows[2][6])
}

func TestGeneratePmtReportExport_Empty(t *testing.T) {
	data, err := GeneratePmtReportExport(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(pmtReportSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
