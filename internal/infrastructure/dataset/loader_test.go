package dataset

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastelens/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

func TestCSVLoader_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("parses header and infers kinds", func(t *testing.T) {
		in := "\ufeffid,name,rating,,alias_pizza\n1,Pizza Place,4.5,x,true\n\n2,Sushi,,y,false\n"
		table, err := CSVLoader{}.Read(ctx, strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, []string{"id", "name", "rating", "Unnamed: 3", "alias_pizza"}, table.ColumnNames())
		assert.Equal(t, 2, table.Len())

		rating, err := table.Column("rating")
		require.NoError(t, err)
		assert.Equal(t, domain.ColumnFloat, rating.Kind)
		assert.True(t, rating.Values[1].IsNull())

		alias, _ := table.Column("alias_pizza")
		assert.True(t, alias.Values[0].Truthy())
		assert.False(t, alias.Values[1].Truthy())
	})

	t.Run("pads short rows", func(t *testing.T) {
		table, err := CSVLoader{}.Read(ctx, strings.NewReader("a,b,c\n1,2\n"))
		require.NoError(t, err)
		c, _ := table.Column("c")
		assert.True(t, c.Values[0].IsNull())
	})

	t.Run("renames duplicate headers", func(t *testing.T) {
		table, err := CSVLoader{}.Read(ctx, strings.NewReader("a,a,a\n1,2,3\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "a.1", "a.2"}, table.ColumnNames())
	})

	t.Run("rejects long rows", func(t *testing.T) {
		_, err := CSVLoader{}.Read(ctx, strings.NewReader("a,b\n1,2,3\n"))
		assert.ErrorIs(t, err, domain.ErrMalformedValue)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := CSVLoader{}.Read(ctx, strings.NewReader(""))
		assert.ErrorIs(t, err, domain.ErrMalformedValue)
	})

	t.Run("custom separator", func(t *testing.T) {
		table, err := CSVLoader{Comma: ';'}.Read(ctx, strings.NewReader("a;b\n1;2\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
	})
}

func TestLoaderFor(t *testing.T) {
	l, err := LoaderFor("data/users.CSV", "")
	require.NoError(t, err)
	assert.IsType(t, CSVLoader{}, l)

	l, err = LoaderFor("data/users.xlsx", "Hoja1")
	require.NoError(t, err)
	assert.Equal(t, XLSXLoader{Sheet: "Hoja1"}, l)

	_, err = LoaderFor("data/users.parquet", "")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestXLSXLoader_Load(t *testing.T) {
	ctx := context.Background()
	path := writeWorkbook(t, "Usuarios", [][]interface{}{
		{"id_persona", "preferencias_alimenticias", "promedio_gasto_comida"},
		{1, "Carnes", 25000},
		{2, "Vegano", nil},
	})

	t.Run("reads first sheet by default", func(t *testing.T) {
		table, err := Load(ctx, path, "")
		require.NoError(t, err)

		assert.Equal(t, 2, table.Len())
		spend, err := table.Column("promedio_gasto_comida")
		require.NoError(t, err)
		assert.Equal(t, domain.ColumnInt, spend.Kind)
		assert.Equal(t, "25000", spend.Values[0].String())
		assert.True(t, spend.Values[1].IsNull())
	})

	t.Run("unknown sheet", func(t *testing.T) {
		_, err := Load(ctx, path, "Nope")
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, filepath.Join(t.TempDir(), "missing.xlsx"), "")
		assert.Error(t, err)
	})
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	in := "id,gasto,nombre\n1,2.5,Ana\n2,,\"Pérez, Luis\"\n"
	table, err := CSVLoader{}.Read(context.Background(), strings.NewReader(in))
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, WriteCSV(&out, table))
	assert.Equal(t, in, out.String())
}
