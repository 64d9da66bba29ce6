package excel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"school-management-api/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseNumbersRowsFromTwo(t *testing.T) {
	data := workbook(t,
		[]interface{}{"AdmissionNumber", "Date", "Status"},
		[]interface{}{"A001", "2024-01-15", "Present"},
		[]interface{}{"A002", "2024-01-15", "Absent"},
	)

	rows, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Number)
	assert.Equal(t, "A001", rows[0].Get("AdmissionNumber"))
	assert.Equal(t, 3, rows[1].Number)
	assert.Equal(t, "Absent", rows[1].Get("Status"))
}

func TestParseSkipsBlankRowsAndTrimsCells(t *testing.T) {
	data := workbook(t,
		[]interface{}{" Name ", "Type"},
		[]interface{}{"  Midterm ", "TERM"},
		[]interface{}{"", ""},
		[]interface{}{"Final", "TERM"},
	)

	rows, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Midterm", rows[0].Get("Name"))
	assert.Equal(t, "Final", rows[1].Get("Name"))
	assert.Equal(t, 3, rows[1].Number)
}

func TestParseReadsRawNumbersAndDates(t *testing.T) {
	date := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	data := workbook(t,
		[]interface{}{"Marks", "Date"},
		[]interface{}{87.5, date},
	)

	rows, err := NewParser().Parse(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "87.5", rows[0].Get("Marks"))

	parsed, err := ParseDate(rows[0].Get("Date"))
	require.NoError(t, err)
	assert.Equal(t, date, parsed)
}

func TestParseHeaderOnly(t *testing.T) {
	rows, err := NewParser().Parse(context.Background(), workbook(t, []interface{}{"Name"}))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestParseCorruptFile(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), []byte("definitely not a zip"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidFileFormat)
}

func TestParseUsesFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"First"}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]interface{}{"Name"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]interface{}{"Second"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := NewParser().Parse(context.Background(), buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "First", rows[0].Get("Name"))
}
