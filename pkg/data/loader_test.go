package data

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoadCSV(t *testing.T) {
	in := "Order ID,Prix,extra\n1,10.5,a\n2,,\n"
	tbl, err := Load("orders.CSV", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"Order ID", "Prix", "extra"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "10.5", "a"}, {"2", "", ""}}, tbl.Rows)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"id", "price", "note"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{1, 12.5, 4}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{2, 3}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	tbl, err := Load("upload.xlsx", &buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "price", "note"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1", "12.5", "4"}, {"2", "3", ""}}, tbl.Rows)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("orders.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadCSVEmpty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadCSVRejectsExtraCells(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	tbl, err := ReadCSV(strings.NewReader("a,b\n1,2,\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "2"}}, tbl.Rows)
}
