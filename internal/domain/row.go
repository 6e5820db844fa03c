package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RowKind tags the variant held by a Row.
type RowKind uint8

const (
	RowMeasurement RowKind = iota + 1
	RowWarning
)

func (k RowKind) String() string {
	switch k {
	case RowMeasurement:
		return "measurement"
	case RowWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Row is one SourceData entry: either a Measurement or a WarningStub.
type Row struct {
	kind        RowKind
	measurement Measurement
	warning     WarningStub
}

// NewMeasurementRow wraps a Measurement.
func NewMeasurementRow(m Measurement) Row {
	return Row{kind: RowMeasurement, measurement: m}
}

// NewWarningRow wraps a WarningStub.
func NewWarningRow(w WarningStub) Row {
	return Row{kind: RowWarning, warning: w}
}

// Kind returns the variant tag. The zero Row has kind 0.
func (r Row) Kind() RowKind { return r.kind }

// Measurement returns the measurement and true if the row holds one.
func (r Row) Measurement() (Measurement, bool) {
	return r.measurement, r.kind == RowMeasurement
}

// Warning returns the stub and true if the row holds one.
func (r Row) Warning() (WarningStub, bool) {
	return r.warning, r.kind == RowWarning
}

// MarshalJSON emits the held variant in its wire shape.
func (r Row) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case RowMeasurement:
		return json.Marshal(r.measurement)
	case RowWarning:
		return json.Marshal(r.warning)
	default:
		return nil, fmt.Errorf("marshal row: empty row")
	}
}

// MarshalYAML emits the held variant in its wire shape.
func (r Row) MarshalYAML() (any, error) {
	switch r.kind {
	case RowMeasurement:
		return r.measurement, nil
	case RowWarning:
		return r.warning, nil
	default:
		return nil, fmt.Errorf("marshal row: empty row")
	}
}

// UnmarshalJSON resolves the row variant. Errors are *SchemaError values with
// paths relative to the row.
func (r *Row) UnmarshalJSON(data []byte) error {
	row, err := ResolveRow(data)
	if err != nil {
		return err
	}
	*r = row
	return nil
}

// measurementKeys are the fields that must all be present for a Measurement.
var (
	measurementKeys = []string{"Frequency", "Nufnu", "FrequencyError", "NufnuError"}
	rowKeys         = []string{"Frequency", "Nufnu", "FrequencyError", "NufnuError", "Info"}
)

// ResolveRow decides the variant of a raw SourceData entry and decodes it.
//
// All four required Measurement keys present: decoded and validated as a
// Measurement, failures are final. Otherwise a string Info makes a WarningStub.
// Anything else is rejected.
func ResolveRow(raw []byte) (Row, error) {
	if !gjson.ValidBytes(raw) {
		return Row{}, schemaErr("", "row is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Row{}, schemaErr("", "row must be an object, got %s", doc.Type)
	}

	results := gjson.GetManyBytes(raw, rowKeys...)
	var missing []string
	for i, key := range measurementKeys {
		if !results[i].Exists() {
			missing = append(missing, key)
		}
	}

	if len(missing) == 0 {
		m, err := decodeMeasurement(raw)
		if err != nil {
			return Row{}, err
		}
		return NewMeasurementRow(m), nil
	}

	info := results[len(measurementKeys)]
	if info.Type == gjson.String {
		return NewWarningRow(WarningStub{Info: info.Str}), nil
	}

	return Row{}, schemaErr("", "row is neither a measurement (missing %s) nor a warning (no Info string)",
		strings.Join(missing, ", "))
}

// wireMeasurement mirrors Measurement with pointers so absent and null
// required fields can be told apart from zero values.
type wireMeasurement struct {
	Frequency       *float64 `json:"Frequency"`
	Nufnu           *float64 `json:"Nufnu"`
	FrequencyError  *float64 `json:"FrequencyError"`
	NufnuError      *float64 `json:"NufnuError"`
	Name            *string  `json:"Name"`
	AngularDistance *float64 `json:"AngularDistance"`
	StartTime       *float64 `json:"StartTime"`
	StopTime        *float64 `json:"StopTime"`
	Info            *string  `json:"Info"`
}

func decodeMeasurement(raw []byte) (Measurement, error) {
	var w wireMeasurement
	if err := strictUnmarshal(raw, &w); err != nil {
		return Measurement{}, err
	}

	v := validator{}
	freq := v.required("Frequency", w.Frequency)
	nufnu := v.required("Nufnu", w.Nufnu)
	freqErr := v.required("FrequencyError", w.FrequencyError)
	nufnuErr := v.required("NufnuError", w.NufnuError)
	if v.err != nil {
		return Measurement{}, v.err
	}

	v.positive("Frequency", freq)
	v.nonNegative("FrequencyError", freqErr)
	v.optionalNonNegative("AngularDistance", w.AngularDistance)
	v.optionalNonNegative("StartTime", w.StartTime)
	v.optionalNonNegative("StopTime", w.StopTime)
	if v.err != nil {
		return Measurement{}, v.err
	}

	return Measurement{
		Frequency:       freq,
		Nufnu:           nufnu,
		FrequencyError:  freqErr,
		NufnuError:      nufnuErr,
		Name:            w.Name,
		AngularDistance: w.AngularDistance,
		StartTime:       w.StartTime,
		StopTime:        w.StopTime,
		Info:            w.Info,
	}, nil
}

// strictUnmarshal decodes JSON and converts type mismatches into SchemaErrors.
func strictUnmarshal(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return toSchemaError(err)
	}
	return nil
}
