package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTablePadsShortRows(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b", "c"}, [][]string{{"1"}, {"1", "2", "3"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
	assert.Equal(t, 2, tbl.Len())

	_, err = NewTable([]string{"a"}, [][]string{{"1", "2"}})
	assert.Error(t, err)
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "  ", "NA", "nan", "NaN", "null", "None",
		"N/A", "n/a", "#N/A", "<NA>", "-nan", "NULL", "-NaN", " #n/a n/a "} {
		assert.True(t, IsMissing(v), v)
	}
	for _, v := range []string{"0", "x", "N/A?", "nana", "-"} {
		assert.False(t, IsMissing(v), v)
	}
}

func TestFloats(t *testing.T) {
	tbl, err := NewTable([]string{"x", "y"}, [][]string{{"1.5", ""}, {" 2 ", "abc"}})
	require.NoError(t, err)

	xs, err := tbl.Floats("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2}, xs)

	_, err = tbl.Floats("y")
	assert.ErrorContains(t, err, "row 1: missing value")

	_, err = tbl.Floats("z")
	assert.Error(t, err)
}

func TestSetColumnAndClone(t *testing.T) {
	tbl, err := NewTable([]string{"a"}, [][]string{{"1"}, {"2"}})
	require.NoError(t, err)
	clone := tbl.Clone()

	require.NoError(t, clone.SetColumn("a", []string{"9", "9"}))
	require.NoError(t, clone.SetColumn("b", []string{"x", "y"}))
	assert.Error(t, clone.SetColumn("c", []string{"only one"}))

	assert.Equal(t, []string{"a"}, tbl.Columns)
	assert.Equal(t, [][]string{{"1"}, {"2"}}, tbl.Rows)
	assert.Equal(t, []string{"a", "b"}, clone.Columns)
	assert.Equal(t, [][]string{{"9", "x"}, {"9", "y"}}, clone.Rows)
}

func TestMissingCountAndHead(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"}, [][]string{{"", "1"}, {"NA", "NaN"}, {"1", "2"}})
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.MissingCount())
	assert.Equal(t, 2, tbl.Head(2).Len())
	assert.Equal(t, 3, tbl.Head(10).Len())
}

func TestFormatFloatRoundTrips(t *testing.T) {
	for _, f := range []float64{0.1, 1.0 / 3, 3.75, 1e-9} {
		got, ok, err := ParseFloat(FormatFloat(f))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
}
