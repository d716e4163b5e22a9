package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned by Load for anything but .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format, use .xlsx or .csv")

// Load reads an uploaded dataset, picking the parser from the file extension.
func Load(filename string, r io.Reader) (*Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx":
		return ReadXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadCSV reads a header row followed by data rows.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("file is empty")
	}
	header := records[0]
	// excelize drops trailing empty cells, so trim the header the same way
	// and let NewTable pad short data rows.
	for len(header) > 0 && strings.TrimSpace(header[len(header)-1]) == "" {
		header = header[:len(header)-1]
	}
	if len(header) == 0 {
		return nil, errors.New("file has no header row")
	}
	rows := records[1:]
	for i, row := range rows {
		if len(row) > len(header) {
			extra := row[len(header):]
			for _, v := range extra {
				if strings.TrimSpace(v) != "" {
					return nil, fmt.Errorf("row %d has more cells than the header", i+1)
				}
			}
			rows[i] = row[:len(header)]
		}
	}
	return NewTable(header, rows)
}
