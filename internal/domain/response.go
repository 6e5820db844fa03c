package domain

import (
	"encoding/json"
	"fmt"
)

// StatusOK is the only statusCode that marks a successful response.
const StatusOK = "OK"

// ResponseInfo is the status envelope of a SED Builder response.
type ResponseInfo struct {
	StatusCode string  `json:"statusCode" yaml:"statusCode"`
	Message    *string `json:"message" yaml:"message"`
}

// Properties holds per-source scalars.
type Properties struct {
	Nh float64 `json:"Nh" yaml:"Nh"` // hydrogen column density, cm^-2
}

// Catalog describes the catalog a block of rows comes from.
type Catalog struct {
	CatalogName string  `json:"CatalogName" yaml:"CatalogName"`
	ErrorRadius float64 `json:"ErrorRadius" yaml:"ErrorRadius"` // arcsec
}

// Measurement is a single SED data point.
type Measurement struct {
	Frequency       float64  `json:"Frequency" yaml:"Frequency"`             // Hz
	Nufnu           float64  `json:"Nufnu" yaml:"Nufnu"`                     // erg cm^-2 s^-1
	FrequencyError  float64  `json:"FrequencyError" yaml:"FrequencyError"`   // Hz
	NufnuError      float64  `json:"NufnuError" yaml:"NufnuError"`           // erg cm^-2 s^-1
	Name            *string  `json:"Name" yaml:"Name"`                       // source name in the catalog
	AngularDistance *float64 `json:"AngularDistance" yaml:"AngularDistance"` // arcsec from the query position
	StartTime       *float64 `json:"StartTime" yaml:"StartTime"`             // MJD
	StopTime        *float64 `json:"StopTime" yaml:"StopTime"`               // MJD
	Info            *string  `json:"Info" yaml:"Info"`                       // free-text flag, e.g. "Upper Limit"
}

// WarningStub is what remains of a row the service tagged with a warning.
type WarningStub struct {
	Info string `json:"Info" yaml:"Info"`
}

// CatalogEntry is one catalog block and its rows, in response order.
type CatalogEntry struct {
	Catalog    Catalog `json:"Catalog" yaml:"Catalog"`
	SourceData []Row   `json:"SourceData" yaml:"SourceData"`
}

// Measurements returns the Measurement rows of the entry in order.
func (e CatalogEntry) Measurements() []Measurement {
	out := make([]Measurement, 0, len(e.SourceData))
	for _, r := range e.SourceData {
		if m, ok := r.Measurement(); ok {
			out = append(out, m)
		}
	}
	return out
}

// Response is a validated getData response. It is built once by
// ParseResponse/DecodeResponse and must be treated as read-only afterwards.
type Response struct {
	ResponseInfo ResponseInfo   `json:"ResponseInfo" yaml:"ResponseInfo"`
	Properties   Properties     `json:"Properties" yaml:"Properties"`
	Catalogs     []CatalogEntry `json:"Catalogs" yaml:"Catalogs"`
}

// IsSuccessful reports whether the service answered with statusCode "OK".
func (r *Response) IsSuccessful() bool {
	return r.ResponseInfo.StatusCode == StatusOK
}

// RowCounts tallies rows by variant across all catalogs.
type RowCounts struct {
	Measurements int
	Warnings     int
}

// Total is the number of rows of both variants.
func (c RowCounts) Total() int { return c.Measurements + c.Warnings }

// CountRows classifies every row of the response.
func (r *Response) CountRows() RowCounts {
	var c RowCounts
	for _, e := range r.Catalogs {
		for _, row := range e.SourceData {
			switch row.Kind() {
			case RowMeasurement:
				c.Measurements++
			case RowWarning:
				c.Warnings++
			}
		}
	}
	return c
}

// ToJSON serializes the response in its schema shape. Unset optional fields are
// emitted as null.
func (r *Response) ToJSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return data, nil
}

// ToDict returns the response as generic maps and slices in its schema shape.
func (r *Response) ToDict() (map[string]any, error) {
	data, err := r.ToJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal response dict: %w", err)
	}
	return out, nil
}
