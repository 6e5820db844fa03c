// Package table flattens validated SED responses into column-oriented tables
// with units and metadata, and remaps them for downstream fitting tools.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

// Column is a named, typed, unit-tagged column. Exactly one of the data slices
// is used, selected by Kind.
type Column struct {
	Name    string
	Kind    domain.Kind
	Unit    domain.Unit
	Strings []string
	Floats  []float64
	Bools   []bool
}

// NewColumn returns an empty column for a registry entry.
func NewColumn(spec domain.ColumnSpec) Column {
	c := Column{Name: spec.Name, Kind: spec.Kind, Unit: spec.Unit}
	switch spec.Kind {
	case domain.KindString:
		c.Strings = []string{}
	case domain.KindFloat64:
		c.Floats = []float64{}
	case domain.KindBool:
		c.Bools = []bool{}
	}
	return c
}

// Len is the number of values held by the column.
func (c Column) Len() int {
	switch c.Kind {
	case domain.KindString:
		return len(c.Strings)
	case domain.KindFloat64:
		return len(c.Floats)
	case domain.KindBool:
		return len(c.Bools)
	default:
		return 0
	}
}

// Value returns the i-th value boxed as string, float64 or bool.
func (c Column) Value(i int) any {
	switch c.Kind {
	case domain.KindString:
		return c.Strings[i]
	case domain.KindFloat64:
		return c.Floats[i]
	case domain.KindBool:
		return c.Bools[i]
	default:
		return nil
	}
}

// Format renders the i-th value as text. NaN renders as an empty string.
func (c Column) Format(i int) string {
	switch c.Kind {
	case domain.KindString:
		return c.Strings[i]
	case domain.KindFloat64:
		if math.IsNaN(c.Floats[i]) {
			return ""
		}
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	case domain.KindBool:
		return strconv.FormatBool(c.Bools[i])
	default:
		return ""
	}
}

type columnJSON struct {
	Name  string      `json:"name"`
	DType string      `json:"dtype"`
	Unit  domain.Unit `json:"unit,omitempty"`
	Data  any         `json:"data"`
}

// MarshalJSON encodes the column header and data. NaN floats become null.
func (c Column) MarshalJSON() ([]byte, error) {
	out := columnJSON{Name: c.Name, DType: c.Kind.String(), Unit: c.Unit}
	switch c.Kind {
	case domain.KindString:
		out.Data = c.Strings
	case domain.KindFloat64:
		data := make([]*float64, len(c.Floats))
		for i := range c.Floats {
			if !math.IsNaN(c.Floats[i]) {
				data[i] = &c.Floats[i]
			}
		}
		out.Data = data
	case domain.KindBool:
		out.Data = c.Bools
	}
	return json.Marshal(out)
}

// Metadata is the free-form metadata block of a table.
type Metadata map[string]any

// clone is a shallow copy; a nil Metadata clones to an empty one.
func (m Metadata) clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Table is an ordered set of equal-length columns plus metadata. Tables are
// not modified after construction; derive new ones with Without or ToJetset.
type Table struct {
	columns []Column
	meta    Metadata
}

// New builds a table, checking that columns have unique names and equal length.
func New(meta Metadata, cols ...Column) (*Table, error) {
	seen := make(map[string]bool, len(cols))
	for i, c := range cols {
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("column %q has %d rows, column %q has %d", c.Name, c.Len(), cols[0].Name, cols[0].Len())
		}
		if c.Kind == 0 {
			return nil, fmt.Errorf("column %d (%q) has no kind", i, c.Name)
		}
	}
	return &Table{columns: cols, meta: meta.clone()}, nil
}

// Len is the number of rows.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}
	return t.columns[0].Len()
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. Data slices are shared with the table
// and must not be modified.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by name.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Without returns a table without the named columns. Metadata is copied.
func (t *Table) Without(names ...string) *Table {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	cols := make([]Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !drop[c.Name] {
			cols = append(cols, c)
		}
	}
	return &Table{columns: cols, meta: t.meta.clone()}
}

// Meta returns a copy of the table metadata.
func (t *Table) Meta() Metadata {
	return t.meta.clone()
}

// MarshalJSON encodes the table as {"columns": [...], "meta": {...}}.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Columns []Column `json:"columns"`
		Meta    Metadata `json:"meta"`
	}{Columns: t.columns, Meta: t.meta})
}
