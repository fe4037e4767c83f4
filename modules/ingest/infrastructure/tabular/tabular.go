package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/org-portal/modules/ingest/domain/feed"
)

var (
	ErrEmptyFile         = errors.New("file contains no rows")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrSheetNotFound     = errors.New("sheet not found")
)

// Parse reads a spreadsheet into a feed table. The format is decided by
// the file extension: .xlsx goes through excelize, .csv through the
// standard csv reader. sheetName only applies to workbooks; when empty the
// first sheet is used.
func Parse(r io.Reader, filename, sheetName string) (*feed.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseWorkbook(r, sheetName)
	case ".csv":
		return parseCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func parseWorkbook(r io.Reader, sheetName string) (*feed.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}
	sheet := sheets[0]
	if sheetName != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return toTable(rows)
}

func parseCSV(r io.Reader) (*feed.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return toTable(rows)
}

func toTable(rows [][]string) (*feed.Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return feed.NewTable(rows[0], rows[1:]), nil
}
