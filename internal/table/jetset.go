package table

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

// Jetset vocabulary, see the Jetset "Data format and SED data" docs.
const (
	RestframeObserved = "obs"
	RestframeSource   = "src"

	DataScaleLinear = "lin-lin"
	DataScaleLog    = "log-log"

	DatasetColumn       = "dataset"
	LegacyDatasetColumn = "data_set"

	DefaultULConfidence = 0.95
	DefaultObjectName   = "new-src"
)

var (
	ErrInvalidRedshift     = fmt.Errorf("%w: redshift", domain.ErrInvalidInput)
	ErrInvalidULConfidence = fmt.Errorf("%w: upper limit confidence level", domain.ErrInvalidInput)
	ErrInvalidRestframe    = fmt.Errorf("%w: restframe", domain.ErrInvalidInput)
	ErrInvalidDataScale    = fmt.Errorf("%w: data scale", domain.ErrInvalidInput)
	ErrEmptyObjectName     = fmt.Errorf("%w: object name", domain.ErrInvalidInput)
	ErrInvalidLayout       = fmt.Errorf("%w: dataset column layout", domain.ErrInvalidInput)

	// ErrMissingColumns is matched by every *MissingColumnsError.
	ErrMissingColumns = errors.New("missing required columns")
)

// MissingColumnsError names every column a conversion needed but did not
// find, and every one it found with the wrong element type.
type MissingColumnsError struct {
	Columns  []string
	Mistyped []string // e.g. "StartTime (str, want float64)"
}

func (e *MissingColumnsError) Error() string {
	var parts []string
	if len(e.Columns) > 0 {
		parts = append(parts, strings.Join(e.Columns, ", "))
	}
	if len(e.Mistyped) > 0 {
		parts = append(parts, "wrong type: "+strings.Join(e.Mistyped, ", "))
	}
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(parts, "; "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrMissingColumns }

// Accepted spellings for the enumerated parameters, mapped to Jetset tokens.
var (
	restframes = map[string]string{
		RestframeObserved: RestframeObserved,
		"observed":        RestframeObserved,
		RestframeSource:   RestframeSource,
		"source":          RestframeSource,
	}
	dataScales = map[string]string{
		DataScaleLinear: DataScaleLinear,
		"linear-linear": DataScaleLinear,
		DataScaleLog:    DataScaleLog,
	}
)

// JetsetParams are the extra parameters of a Jetset table. Build them with
// NewJetsetParams so defaults are applied and values validated.
type JetsetParams struct {
	Z             float64
	ULConfidence  float64
	Restframe     string
	DataScale     string
	ObjectName    string
	DatasetColumn string
}

// JetsetOption overrides a default Jetset parameter.
type JetsetOption func(*JetsetParams)

// WithULConfidence sets the upper-limit confidence level (default 0.95).
func WithULConfidence(cl float64) JetsetOption {
	return func(p *JetsetParams) { p.ULConfidence = cl }
}

// WithRestframe sets "obs" (observed fluxes, default) or "src" (source
// luminosities). "observed" and "source" are accepted as aliases.
func WithRestframe(frame string) JetsetOption {
	return func(p *JetsetParams) { p.Restframe = frame }
}

// WithDataScale sets "lin-lin" (default) or "log-log".
func WithDataScale(scale string) JetsetOption {
	return func(p *JetsetParams) { p.DataScale = scale }
}

// WithObjectName sets the object identifier (default "new-src").
func WithObjectName(name string) JetsetOption {
	return func(p *JetsetParams) { p.ObjectName = name }
}

// WithLegacyLayout names the catalog column "data_set" instead of "dataset".
func WithLegacyLayout() JetsetOption {
	return func(p *JetsetParams) { p.DatasetColumn = LegacyDatasetColumn }
}

// NewJetsetParams applies defaults and options, then validates the result.
func NewJetsetParams(z float64, opts ...JetsetOption) (JetsetParams, error) {
	p := JetsetParams{
		Z:             z,
		ULConfidence:  DefaultULConfidence,
		Restframe:     RestframeObserved,
		DataScale:     DataScaleLinear,
		ObjectName:    DefaultObjectName,
		DatasetColumn: DatasetColumn,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.normalize(); err != nil {
		return JetsetParams{}, err
	}
	return p, nil
}

// normalize validates every field and canonicalizes enum aliases.
func (p *JetsetParams) normalize() error {
	if !inUnitInterval(p.Z) {
		return &domain.InputError{Field: "z", Value: p.Z, Reason: "must be in [0, 1]", Err: ErrInvalidRedshift}
	}
	if !inUnitInterval(p.ULConfidence) {
		return &domain.InputError{Field: "ul_cl", Value: p.ULConfidence, Reason: "must be in [0, 1]", Err: ErrInvalidULConfidence}
	}
	frame, ok := restframes[p.Restframe]
	if !ok {
		return &domain.InputError{Field: "restframe", Value: p.Restframe, Reason: `must be "obs" or "src"`, Err: ErrInvalidRestframe}
	}
	scale, ok := dataScales[p.DataScale]
	if !ok {
		return &domain.InputError{Field: "data_scale", Value: p.DataScale, Reason: `must be "lin-lin" or "log-log"`, Err: ErrInvalidDataScale}
	}
	if strings.TrimSpace(p.ObjectName) == "" {
		return &domain.InputError{Field: "obj_name", Value: p.ObjectName, Reason: "must not be empty", Err: ErrEmptyObjectName}
	}
	if p.DatasetColumn != DatasetColumn && p.DatasetColumn != LegacyDatasetColumn {
		return &domain.InputError{Field: "dataset_column", Value: p.DatasetColumn, Reason: `must be "dataset" or "data_set"`, Err: ErrInvalidLayout}
	}
	p.Restframe = frame
	p.DataScale = scale
	return nil
}

// Validate reports the first invalid parameter without modifying p.
func (p JetsetParams) Validate() error {
	return p.normalize()
}

func inUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// jetsetRename maps flat-table columns to Jetset columns, in output order.
// The catalog column is renamed per layout.
var jetsetRename = []struct {
	from, to string
	kind     domain.Kind
}{
	{domain.ColFrequency.Name, "x", domain.ColFrequency.Kind},
	{domain.ColFrequencyError.Name, "dx", domain.ColFrequencyError.Kind},
	{domain.ColNufnu.Name, "y", domain.ColNufnu.Kind},
	{domain.ColNufnuError.Name, "dy", domain.ColNufnuError.Kind},
	{domain.ColStartTime.Name, "T_start", domain.ColStartTime.Kind},
	{domain.ColStopTime.Name, "T_stop", domain.ColStopTime.Kind},
	{domain.ColCatalog.Name, "", domain.ColCatalog.Kind},
}

// Jetset validates the parameters, then converts t. It is shorthand for
// NewJetsetParams followed by ToJetset.
func Jetset(t *Table, z float64, opts ...JetsetOption) (*Table, error) {
	p, err := NewJetsetParams(z, opts...)
	if err != nil {
		return nil, err
	}
	return ToJetset(t, p)
}

// ToJetset remaps a flat SED table to the column layout read by
// jetset.data_loader.Data: x, dx, y, dy, T_start, T_stop, UL and the dataset
// column. Units carry over from the source columns.
//
// NaN observation times become 0 because Jetset rejects NaN time bounds. UL is
// always false: the service has no reliable per-row upper-limit flag yet.
//
// The restframe and data_scale metadata hold the canonical token, so an
// "observed" alias comes out as "obs".
func ToJetset(t *Table, p JetsetParams) (*Table, error) {
	if err := p.normalize(); err != nil {
		return nil, err
	}

	var missing, mistyped []string
	for _, r := range jetsetRename {
		c, ok := t.Column(r.from)
		switch {
		case !ok:
			missing = append(missing, r.from)
		case c.Kind != r.kind:
			mistyped = append(mistyped, fmt.Sprintf("%s (%s, want %s)", r.from, c.Kind, r.kind))
		}
	}
	if len(missing) > 0 || len(mistyped) > 0 {
		return nil, &MissingColumnsError{Columns: missing, Mistyped: mistyped}
	}

	cols := make([]Column, 0, len(jetsetRename)+1)
	for _, r := range jetsetRename {
		src, _ := t.Column(r.from)
		switch r.from {
		case domain.ColCatalog.Name:
			cols = append(cols, boolColumn("UL", t.Len()))
			cols = append(cols, Column{
				Name:    p.DatasetColumn,
				Kind:    domain.KindString,
				Unit:    src.Unit,
				Strings: append([]string{}, src.Strings...),
			})
		case domain.ColStartTime.Name, domain.ColStopTime.Name:
			cols = append(cols, renamedFloat(r.to, src, true))
		default:
			cols = append(cols, renamedFloat(r.to, src, false))
		}
	}

	meta := Metadata{
		"z":          p.Z,
		"UL_CL":      p.ULConfidence,
		"restframe":  p.Restframe,
		"data_scale": p.DataScale,
		"obj_name":   p.ObjectName,
	}
	return New(meta, cols...)
}

func renamedFloat(name string, src Column, zeroNaN bool) Column {
	data := make([]float64, len(src.Floats))
	for i, v := range src.Floats {
		if zeroNaN && math.IsNaN(v) {
			v = 0
		}
		data[i] = v
	}
	return Column{Name: name, Kind: domain.KindFloat64, Unit: src.Unit, Floats: data}
}

func boolColumn(name string, n int) Column {
	return Column{Name: name, Kind: domain.KindBool, Bools: make([]bool, n)}
}
