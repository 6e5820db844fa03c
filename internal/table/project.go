package table

import (
	"math"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

type (
	floatField  func(m domain.Measurement, c domain.Catalog) float64
	stringField func(m domain.Measurement, c domain.Catalog) string
)

// Accessors for every registry column, keyed by column name. Unset optional
// floats read as NaN and unset optional strings as "".
var (
	floatFields = map[string]floatField{
		domain.ColFrequency.Name:       func(m domain.Measurement, _ domain.Catalog) float64 { return m.Frequency },
		domain.ColNufnu.Name:           func(m domain.Measurement, _ domain.Catalog) float64 { return m.Nufnu },
		domain.ColFrequencyError.Name:  func(m domain.Measurement, _ domain.Catalog) float64 { return m.FrequencyError },
		domain.ColNufnuError.Name:      func(m domain.Measurement, _ domain.Catalog) float64 { return m.NufnuError },
		domain.ColAngularDistance.Name: func(m domain.Measurement, _ domain.Catalog) float64 { return orNaN(m.AngularDistance) },
		domain.ColStartTime.Name:       func(m domain.Measurement, _ domain.Catalog) float64 { return orNaN(m.StartTime) },
		domain.ColStopTime.Name:        func(m domain.Measurement, _ domain.Catalog) float64 { return orNaN(m.StopTime) },
		domain.ColErrorRadius.Name:     func(_ domain.Measurement, c domain.Catalog) float64 { return c.ErrorRadius },
	}
	stringFields = map[string]stringField{
		domain.ColName.Name:    func(m domain.Measurement, _ domain.Catalog) string { return orEmpty(m.Name) },
		domain.ColInfo.Name:    func(m domain.Measurement, _ domain.Catalog) string { return orEmpty(m.Info) },
		domain.ColCatalog.Name: func(_ domain.Measurement, c domain.Catalog) string { return c.CatalogName },
	}
)

// Project flattens a response into the flat SED table: one row per
// Measurement in catalog order, with the parent catalog's name and error
// radius repeated on each row, and Nh attached to the metadata.
//
// Warning-only rows are skipped because the service does not send their
// numeric payload. A response with no measurements yields a zero-row table
// that still has every column.
func Project(resp *domain.Response) *Table {
	specs := domain.Columns()
	cols := make([]Column, len(specs))
	for i, spec := range specs {
		cols[i] = NewColumn(spec)
	}

	for _, entry := range resp.Catalogs {
		for _, row := range entry.SourceData {
			m, ok := row.Measurement()
			if !ok {
				continue
			}
			for i := range cols {
				appendField(&cols[i], m, entry.Catalog)
			}
		}
	}

	meta := make(Metadata, len(domain.Metadata()))
	for _, ms := range domain.Metadata() {
		if ms.Name == domain.MetaNh.Name {
			meta[ms.Name] = domain.Quantity{Value: resp.Properties.Nh, Unit: ms.Unit}
		}
	}

	return &Table{columns: cols, meta: meta}
}

func appendField(c *Column, m domain.Measurement, cat domain.Catalog) {
	switch c.Kind {
	case domain.KindFloat64:
		c.Floats = append(c.Floats, floatFields[c.Name](m, cat))
	case domain.KindString:
		c.Strings = append(c.Strings, stringFields[c.Name](m, cat))
	}
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func orEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
