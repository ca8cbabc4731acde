package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueKind identifies what a single cell holds
type ValueKind int

const (
	KindNull ValueKind = iota
	KindNumber
	KindBool
	KindText
)

// Value is a single table cell. The zero value is null.
type Value struct {
	kind ValueKind
	num  float64
	flag bool
	text string
}

// nullTokens are raw cell contents read as missing values
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// Null returns a missing value
func Null() Value { return Value{} }

// Number returns a numeric value. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Null()
	}
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Text returns a text value
func Text(s string) Value { return Value{kind: KindText, text: s} }

// ParseValue reads a raw cell the way a CSV or spreadsheet cell is read:
// null tokens, then numbers, then booleans, then text.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	if nullTokens[strings.ToLower(s)] {
		return Null()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	return Text(s)
}

// Kind returns the kind of the cell
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric reading of the cell. Booleans read as 0 or 1.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.flag {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Truthy reports whether the cell counts as a set membership flag
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num > 0
	case KindBool:
		return v.flag
	case KindText:
		s := strings.ToLower(v.text)
		return s == "true" || s == "yes" || s == "si" || s == "sí"
	}
	return false
}

// String formats the cell. Whole numbers print without a fractional part.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindText:
		return v.text
	}
	return ""
}

// Equal reports whether two cells hold the same value. Nulls are never equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.kind == KindNull {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.flag == o.flag
	}
	return v.text == o.text
}

// MarshalJSON encodes the cell as a JSON scalar
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindText:
		return json.Marshal(v.text)
	}
	return []byte("null"), nil
}

// ColumnKind is the storage kind of a whole column
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnFloat
	ColumnInt
	ColumnBool
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnFloat:
		return "float"
	case ColumnInt:
		return "int"
	case ColumnBool:
		return "bool"
	}
	return "text"
}

// Numeric reports whether the column holds numbers
func (k ColumnKind) Numeric() bool {
	return k == ColumnFloat || k == ColumnInt
}

// Column is a named, ordered sequence of cells
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []Value
}

// NewColumn builds a column from parsed cells and infers its kind
func NewColumn(name string, values []Value) *Column {
	return &Column{Name: name, Kind: inferKind(values), Values: values}
}

// NewColumnFromStrings parses raw cells. A column that mixes text with
// other kinds keeps every non-null cell as its raw text.
func NewColumnFromStrings(name string, raw []string) *Column {
	values := make([]Value, len(raw))
	for i, r := range raw {
		values[i] = ParseValue(r)
	}
	col := NewColumn(name, values)
	if col.Kind == ColumnText {
		for i, v := range values {
			if !v.IsNull() && v.kind != KindText {
				values[i] = Text(strings.TrimSpace(raw[i]))
			}
		}
	}
	return col
}

func inferKind(values []Value) ColumnKind {
	numbers, bools, texts, whole := 0, 0, 0, true
	for _, v := range values {
		switch v.kind {
		case KindNumber:
			numbers++
			if v.num != math.Trunc(v.num) {
				whole = false
			}
		case KindBool:
			bools++
		case KindText:
			texts++
		}
	}
	switch {
	case texts > 0 || (numbers > 0 && bools > 0):
		return ColumnText
	case bools > 0:
		return ColumnBool
	case numbers > 0 && whole:
		return ColumnInt
	}
	return ColumnFloat
}

// Len returns the number of cells
func (c *Column) Len() int { return len(c.Values) }

// Numbers returns the non-null numeric cells in row order
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}

// CastInt truncates every numeric cell toward zero. Nulls stay null.
func (c *Column) CastInt() {
	for i, v := range c.Values {
		if f, ok := v.Float(); ok {
			c.Values[i] = Number(math.Trunc(f))
		}
	}
	c.Kind = ColumnInt
}

// Table is an in-memory, column-oriented dataset
type Table struct {
	columns []*Column
	index   map[string]int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// AddColumn appends a column, replacing any column with the same name.
// All columns must have the same length.
func (t *Table) AddColumn(c *Column) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("%w: column must have a name", ErrInvalidRequest)
	}
	if len(t.columns) > 0 && c.Len() != t.Len() {
		return fmt.Errorf("%w: column %q has %d rows, table has %d", ErrInvalidRequest, c.Name, c.Len(), t.Len())
	}
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return nil
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return t.columns[i], nil
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Columns returns the columns in order
func (t *Table) Columns() []*Column { return t.columns }

// ColumnNames returns the column names in order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// Row returns row i keyed by column name
func (t *Table) Row(i int) map[string]Value {
	row := make(map[string]Value, len(t.columns))
	for _, c := range t.columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := NewTable()
	for _, c := range t.columns {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		out.columns = append(out.columns, &Column{Name: c.Name, Kind: c.Kind, Values: values})
		out.index[c.Name] = len(out.columns) - 1
	}
	return out
}
