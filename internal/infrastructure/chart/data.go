package chart

import (
	"fmt"
	"math"
	"sort"

	"github.com/tastelens/backend/internal/domain"
)

// column resolves a column a chart kind needs. An empty name is a request error.
func column(table *domain.Table, name, role string, kind domain.ChartKind) (*domain.Column, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: %s chart needs %s", domain.ErrInvalidRequest, kind, role)
	}
	return table.Column(name)
}

// optionalColumn resolves a column that may be left unset
func optionalColumn(table *domain.Table, name string) (*domain.Column, error) {
	if name == "" {
		return nil, nil
	}
	return table.Column(name)
}

// numbers reads a numeric column row by row. Nulls read as NaN.
func numbers(col *domain.Column) ([]float64, error) {
	if !col.Kind.Numeric() && col.Kind != domain.ColumnBool {
		return nil, fmt.Errorf("%w: column %q is %s, want numeric", domain.ErrInvalidRequest, col.Name, col.Kind)
	}
	out := make([]float64, col.Len())
	for i, v := range col.Values {
		f, ok := v.Float()
		if !ok {
			f = math.NaN()
		}
		out[i] = f
	}
	return out, nil
}

// levels lists the distinct non-null values of a categorical column.
// Numeric columns are sorted; text keeps first appearance order. A non-empty
// order overrides both.
func levels(col *domain.Column, order []string) []string {
	if col == nil {
		return []string{""}
	}
	if len(order) > 0 {
		return order
	}

	seen := make(map[string]bool)
	var out []string
	for _, v := range col.Values {
		if v.IsNull() || seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		out = append(out, v.String())
	}
	if col.Kind.Numeric() {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := domain.ParseValue(out[i]).Float()
			b, _ := domain.ParseValue(out[j]).Float()
			return a < b
		})
	}
	return out
}

// labelAt returns the category label of a row, or false for a null cell.
// A nil column puts every row in the single "" level.
func labelAt(col *domain.Column, row int) (string, bool) {
	if col == nil {
		return "", true
	}
	v := col.Values[row]
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

// groups splits the finite values of y by (category, hue) level index
type groups struct {
	cats   []string
	hues   []string
	values map[[2]int][]float64
}

func groupValues(y []float64, cat, hue *domain.Column, order []string) groups {
	g := groups{
		cats:   levels(cat, order),
		hues:   levels(hue, nil),
		values: make(map[[2]int][]float64),
	}
	catIndex := indexOf(g.cats)
	hueIndex := indexOf(g.hues)

	for row, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		c, ok := labelAt(cat, row)
		if !ok {
			continue
		}
		h, ok := labelAt(hue, row)
		if !ok {
			continue
		}
		ci, ok := catIndex[c]
		if !ok {
			continue
		}
		key := [2]int{ci, hueIndex[h]}
		g.values[key] = append(g.values[key], v)
	}
	return g
}

func indexOf(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[n] = i
	}
	return m
}

// finite drops NaN and infinite values
func finite(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
