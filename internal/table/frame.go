package table

// Record is one table row keyed by column name.
type Record map[string]any

// Records returns a row-oriented view of the table. Float values keep NaN for
// missing entries.
func (t *Table) Records() []Record {
	n := t.Len()
	out := make([]Record, n)
	for i := range n {
		r := make(Record, len(t.columns))
		for _, c := range t.columns {
			r[c.Name] = c.Value(i)
		}
		out[i] = r
	}
	return out
}

// Units maps each column that carries a unit to that unit's string form.
func (t *Table) Units() map[string]string {
	units := make(map[string]string)
	for _, c := range t.columns {
		if c.Unit != "" {
			units[c.Name] = string(c.Unit)
		}
	}
	return units
}
