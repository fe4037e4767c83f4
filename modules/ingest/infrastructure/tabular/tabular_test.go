package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	input := strings.NewReader("Area,Tribe,Squad,Name\nRetail,Payments Tribe,Payments,Jane Doe\nRetail,Payments Tribe\n")

	table, err := Parse(input, "people.csv", "")
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, "Jane Doe", table.Cell(0, "name"))
	// ragged rows read as empty cells
	require.Equal(t, "", table.Cell(1, "squad"))
}

func TestParseCSV_EmptyFile(t *testing.T) {
	_, err := Parse(strings.NewReader(""), "empty.csv", "")
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse(strings.NewReader("x"), "people.pdf", "")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func workbookBytes(t *testing.T, sheet string, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseWorkbook(t *testing.T) {
	buf := workbookBytes(t, "People", [][]interface{}{
		{"Area", "Tribe", "Squad", "Name"},
		{"Retail", "Payments Tribe", "Payments", "Jane Doe"},
	})

	table, err := Parse(buf, "people.xlsx", "")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.Equal(t, "Payments", table.Cell(0, "Squad"))
}

func TestParseWorkbook_SheetSelection(t *testing.T) {
	buf := workbookBytes(t, "People", [][]interface{}{
		{"Name"},
		{"Jane Doe"},
	})

	// sheet names match caselessly
	table, err := Parse(bytes.NewReader(buf.Bytes()), "people.xlsx", "people")
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	_, err = Parse(bytes.NewReader(buf.Bytes()), "people.xlsx", "Services")
	require.ErrorIs(t, err, ErrSheetNotFound)
}
