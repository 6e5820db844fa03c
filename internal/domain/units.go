package domain

// Unit is a physical unit rendered in astropy's generic string format, which is
// what downstream fitting tools expect to read back.
type Unit string

const (
	UnitNone    Unit = ""
	UnitHz      Unit = "Hz"
	UnitFlux    Unit = "erg / (cm2 s)" // nu*F_nu
	UnitArcsec  Unit = "arcsec"
	UnitDay     Unit = "d"
	UnitPerSqCm Unit = "1 / cm2" // column density
)

// Kind is the element type of a table column.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindFloat64
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "str"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Quantity is a scalar value with its unit, used for table metadata.
type Quantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}
