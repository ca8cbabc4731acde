package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ValueKind
		str  string
	}{
		{"empty is null", "", KindNull, ""},
		{"NaN token is null", "NaN", KindNull, ""},
		{"N/A token is null", " n/a ", KindNull, ""},
		{"integer", "42", KindNumber, "42"},
		{"float", "3.5", KindNumber, "3.5"},
		{"whole float prints as integer", "2.0", KindNumber, "2"},
		{"boolean", "True", KindBool, "true"},
		{"text", "Medio", KindText, "Medio"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ParseValue(tt.raw)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.str, v.String())
		})
	}
}

func TestValueTruthy(t *testing.T) {
	assert.True(t, Number(1).Truthy())
	assert.False(t, Number(0).Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.False(t, Null().Truthy())
	assert.True(t, Text("TRUE").Truthy())
	assert.False(t, Text("no").Truthy())
}

func TestNumberNaNIsNull(t *testing.T) {
	var zero float64
	assert.True(t, Number(zero/zero).IsNull())
}

func TestNewColumnFromStrings(t *testing.T) {
	t.Run("whole numbers infer int", func(t *testing.T) {
		col := NewColumnFromStrings("price_num", []string{"1", "2", "", "4"})
		assert.Equal(t, ColumnInt, col.Kind)
		assert.True(t, col.Values[2].IsNull())
	})

	t.Run("fractions infer float", func(t *testing.T) {
		col := NewColumnFromStrings("rating", []string{"4.5", "3"})
		assert.Equal(t, ColumnFloat, col.Kind)
	})

	t.Run("mixed text keeps raw cells", func(t *testing.T) {
		col := NewColumnFromStrings("id", []string{"12", "abc", "007"})
		assert.Equal(t, ColumnText, col.Kind)
		assert.Equal(t, "007", col.Values[2].String())
	})

	t.Run("booleans infer bool", func(t *testing.T) {
		col := NewColumnFromStrings("alias_sushi", []string{"True", "False"})
		assert.Equal(t, ColumnBool, col.Kind)
	})
}

func TestColumnCastInt(t *testing.T) {
	col := NewColumn("x", []Value{Number(5.9), Null(), Number(-1.5)})
	col.CastInt()

	assert.Equal(t, ColumnInt, col.Kind)
	assert.Equal(t, "5", col.Values[0].String())
	assert.True(t, col.Values[1].IsNull())
	assert.Equal(t, "-1", col.Values[2].String())
}

func TestTable(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.AddColumn(NewColumnFromStrings("a", []string{"1", "2"})))
	require.NoError(t, table.AddColumn(NewColumnFromStrings("b", []string{"x", "y"})))

	t.Run("rejects length mismatch", func(t *testing.T) {
		err := table.AddColumn(NewColumnFromStrings("c", []string{"1"}))
		assert.True(t, errors.Is(err, ErrInvalidRequest))
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := table.Column("missing")
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("row and names", func(t *testing.T) {
		assert.Equal(t, 2, table.Len())
		assert.Equal(t, []string{"a", "b"}, table.ColumnNames())
		assert.Equal(t, "y", table.Row(1)["b"].String())
	})

	t.Run("clone is independent", func(t *testing.T) {
		clone := table.Clone()
		col, err := clone.Column("a")
		require.NoError(t, err)
		col.Values[0] = Number(99)

		orig, _ := table.Column("a")
		assert.Equal(t, "1", orig.Values[0].String())
	})
}

func TestParseImputationNames(t *testing.T) {
	st, err := ParseStatistic("media")
	require.NoError(t, err)
	assert.Equal(t, StatisticMean, st)

	c, err := ParseCondition("CERO")
	require.NoError(t, err)
	assert.Equal(t, ConditionZero, c)

	_, err = ParseStatistic("variance")
	assert.ErrorIs(t, err, ErrUnsupportedImputation)

	_, err = ParseCondition("positive")
	assert.ErrorIs(t, err, ErrUnsupportedImputation)
}

func TestConditionMatches(t *testing.T) {
	assert.True(t, ConditionNull.Matches(Null()))
	assert.False(t, ConditionNull.Matches(Number(0)))
	assert.True(t, ConditionNegative.Matches(Number(-3)))
	assert.False(t, ConditionNegative.Matches(Null()))
	assert.True(t, ConditionZero.Matches(Number(0)))
	assert.False(t, ConditionZero.Matches(Null()))
}

func TestParseChartKind(t *testing.T) {
	k, err := ParseChartKind("Violin")
	require.NoError(t, err)
	assert.Equal(t, ChartViolin, k)

	_, err = ParseChartKind("pie")
	assert.ErrorIs(t, err, ErrInvalidChartKind)
}
