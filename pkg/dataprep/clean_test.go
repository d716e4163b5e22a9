package dataprep

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"returnrisk/pkg/data"
	"returnrisk/pkg/schema"
)

var cols = []string{schema.OrderID, schema.CustomerID, schema.ProductID, schema.Price, schema.Category, schema.Rating, schema.Returned}

func resolved(t *testing.T, rows ...[]string) *data.Table {
	t.Helper()
	tbl, err := data.NewTable(cols, rows)
	require.NoError(t, err)
	return tbl
}

func TestCleanImputesRatingMean(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "Books", "4", "0"},
		[]string{"2", "1", "1", "10", "Books", "", "1"},
		[]string{"3", "1", "1", "10", "Books", "2.5", "0"},
		[]string{"4", "1", "1", "10", "Books", "NaN", "1"},
		[]string{"5", "1", "1", "10", "Books", "5", "0"},
	)
	cleaned, _, err := Clean(in)
	require.NoError(t, err)

	ratings, err := cleaned.Floats(schema.Rating)
	require.NoError(t, err)
	want := (4 + 2.5 + 5) / 3.0
	assert.Equal(t, want, ratings[1])
	assert.Equal(t, want, ratings[3])
	assert.Equal(t, []float64{4, 2.5, 5}, []float64{ratings[0], ratings[2], ratings[4]})

	// The input stays untouched.
	assert.Equal(t, "", in.Rows[1][5])
}

func TestCleanImputesCategoryMode(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "Home", "4", "0"},
		[]string{"2", "1", "1", "10", "Books", "4", "1"},
		[]string{"3", "1", "1", "10", "", "4", "0"},
		[]string{"4", "1", "1", "10", "Books", "4", "1"},
		[]string{"5", "1", "1", "10", "Home", "4", "0"},
	)
	cleaned, enc, err := Clean(in)
	require.NoError(t, err)

	cats, _ := cleaned.Column(schema.Category)
	// Home and Books tie; Home was seen first.
	assert.Equal(t, "Home", cats[2])
	assert.Equal(t, []string{"Books", "Home"}, enc.Classes())

	codes, ok := cleaned.Column(schema.CategoryCode)
	require.True(t, ok)
	for i, c := range cats {
		code, _ := enc.Encode(c)
		assert.Equal(t, strconv.Itoa(code), codes[i])
	}
}

func TestCleanAllCategoriesMissing(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "", "4", "0"},
		[]string{"2", "1", "1", "10", "NA", "4", "1"},
	)
	cleaned, enc, err := Clean(in)
	require.NoError(t, err)
	cats, _ := cleaned.Column(schema.Category)
	assert.Equal(t, []string{UnknownCategory, UnknownCategory}, cats)
	assert.Equal(t, 1, enc.Len())
}

func TestCleanAllRatingsMissing(t *testing.T) {
	in := resolved(t, []string{"1", "1", "1", "10", "Books", "", "0"})
	_, _, err := Clean(in)
	assert.ErrorIs(t, err, ErrAllMissing)
}

func TestCleanRejectsNonNumericRating(t *testing.T) {
	in := resolved(t, []string{"1", "1", "1", "10", "Books", "good", "0"})
	_, _, err := Clean(in)
	assert.Error(t, err)
}

func TestCleanIsIdempotentOnCompleteTable(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "Home", "4.5", "0"},
		[]string{"2", "3", "2", "12.25", "Books", "3", "1"},
	)
	once, _, err := Clean(in)
	require.NoError(t, err)
	for j, c := range in.Columns {
		col, _ := once.Column(c)
		for i := range in.Rows {
			assert.Equal(t, in.Rows[i][j], col[i], "column %s row %d", c, i)
		}
	}

	twice, _, err := Clean(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestMode(t *testing.T) {
	m, ok := Mode([]string{"b", "a", "a", "b", "c"})
	assert.True(t, ok)
	assert.Equal(t, "b", m)

	_, ok = Mode([]string{"", "NA"})
	assert.False(t, ok)
}

func TestCleanImputesNAMarkers(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "Books", "N/A", "0"},
		[]string{"2", "1", "1", "10", "#N/A", "2", "1"},
		[]string{"3", "1", "1", "10", "Books", "<NA>", "0"},
		[]string{"4", "1", "1", "10", "Home", "4", "1"},
	)
	cleaned, _, err := Clean(in)
	require.NoError(t, err)

	ratings, err := cleaned.Floats(schema.Rating)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 2, 3, 4}, ratings)
	cats, _ := cleaned.Column(schema.Category)
	assert.Equal(t, "Books", cats[1])
}

func TestCleanTrimsCategories(t *testing.T) {
	in := resolved(t,
		[]string{"1", "1", "1", "10", "Livres ", "4", "0"},
		[]string{"2", "1", "1", "10", " Livres", "4", "1"},
		[]string{"3", "1", "1", "10", "Maison", "4", "0"},
	)
	cleaned, enc, err := Clean(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"Livres", "Maison"}, enc.Classes())
	cats, _ := cleaned.Column(schema.Category)
	assert.Equal(t, []string{"Livres", "Livres", "Maison"}, cats)
}
