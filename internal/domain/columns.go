package domain

// ColumnSource says where a flat-table column is read from.
type ColumnSource uint8

const (
	FromSourceData ColumnSource = iota + 1 // a Measurement field
	FromCatalog                            // the parent Catalog descriptor
)

// ColumnSpec describes one column of the flat SED table.
type ColumnSpec struct {
	Name   string
	Kind   Kind
	Unit   Unit
	Source ColumnSource
}

// MetadataSpec describes a per-source scalar attached to table metadata.
type MetadataSpec struct {
	Name string
	Unit Unit
}

// Registry entries. The order of columns below is the table column order.
var (
	ColName            = ColumnSpec{Name: "Name", Kind: KindString, Unit: UnitNone, Source: FromSourceData}
	ColFrequency       = ColumnSpec{Name: "Frequency", Kind: KindFloat64, Unit: UnitHz, Source: FromSourceData}
	ColNufnu           = ColumnSpec{Name: "Nufnu", Kind: KindFloat64, Unit: UnitFlux, Source: FromSourceData}
	ColFrequencyError  = ColumnSpec{Name: "FrequencyError", Kind: KindFloat64, Unit: UnitHz, Source: FromSourceData}
	ColNufnuError      = ColumnSpec{Name: "NufnuError", Kind: KindFloat64, Unit: UnitFlux, Source: FromSourceData}
	ColAngularDistance = ColumnSpec{Name: "AngularDistance", Kind: KindFloat64, Unit: UnitArcsec, Source: FromSourceData}
	ColStartTime       = ColumnSpec{Name: "StartTime", Kind: KindFloat64, Unit: UnitDay, Source: FromSourceData}
	ColStopTime        = ColumnSpec{Name: "StopTime", Kind: KindFloat64, Unit: UnitDay, Source: FromSourceData}
	ColInfo            = ColumnSpec{Name: "Info", Kind: KindString, Unit: UnitNone, Source: FromSourceData}
	ColCatalog         = ColumnSpec{Name: "Catalog", Kind: KindString, Unit: UnitNone, Source: FromCatalog}
	ColErrorRadius     = ColumnSpec{Name: "ErrorRadius", Kind: KindFloat64, Unit: UnitArcsec, Source: FromCatalog}

	MetaNh = MetadataSpec{Name: "Nh", Unit: UnitPerSqCm}
)

var columns = [...]ColumnSpec{
	ColName,
	ColFrequency,
	ColNufnu,
	ColFrequencyError,
	ColNufnuError,
	ColAngularDistance,
	ColStartTime,
	ColStopTime,
	ColInfo,
	ColCatalog,
	ColErrorRadius,
}

var metadata = [...]MetadataSpec{MetaNh}

// Columns returns the flat-table columns in table order. The returned slice is
// a fresh copy.
func Columns() []ColumnSpec {
	out := make([]ColumnSpec, len(columns))
	copy(out, columns[:])
	return out
}

// ColumnsFrom returns the columns read from the given source, in table order.
func ColumnsFrom(src ColumnSource) []ColumnSpec {
	var out []ColumnSpec
	for _, c := range columns {
		if c.Source == src {
			out = append(out, c)
		}
	}
	return out
}

// LookupColumn finds a registry column by name.
func LookupColumn(name string) (ColumnSpec, bool) {
	for _, c := range columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSpec{}, false
}

// Metadata returns the metadata entries attached to every flat table.
func Metadata() []MetadataSpec {
	out := make([]MetadataSpec, len(metadata))
	copy(out, metadata[:])
	return out
}
