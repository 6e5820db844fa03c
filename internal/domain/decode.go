package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Wire shapes use pointers so missing and null required fields are detected.
type (
	wireResponse struct {
		ResponseInfo *wireInfo       `json:"ResponseInfo"`
		Properties   *wireProperties `json:"Properties"`
		Catalogs     *[]wireEntry    `json:"Catalogs"`
	}
	wireInfo struct {
		StatusCode *string `json:"statusCode"`
		Message    *string `json:"message"`
	}
	wireProperties struct {
		Nh *float64 `json:"Nh"`
	}
	wireEntry struct {
		Catalog    *wireCatalog       `json:"Catalog"`
		SourceData *[]json.RawMessage `json:"SourceData"`
	}
	wireCatalog struct {
		CatalogName *string  `json:"CatalogName"`
		ErrorRadius *float64 `json:"ErrorRadius"`
	}
)

// DecodeResponse reads a whole document from r and validates it.
func DecodeResponse(r io.Reader) (*Response, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return ParseResponse(data)
}

// ParseResponse validates a getData JSON document and builds a Response.
// Any violation returns a *SchemaError and a nil Response.
func ParseResponse(data []byte) (*Response, error) {
	if !gjson.ValidBytes(data) {
		return nil, schemaErr("", "malformed JSON document")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, schemaErr("", "document must be a JSON object")
	}

	var w wireResponse
	if err := strictUnmarshal(data, &w); err != nil {
		return nil, err
	}

	v := validator{}
	if w.ResponseInfo == nil {
		v.fail("ResponseInfo", "is required")
	}
	if w.Properties == nil {
		v.fail("Properties", "is required")
	}
	if w.Catalogs == nil {
		v.fail("Catalogs", "is required")
	}
	if v.err != nil {
		return nil, v.err
	}

	status := v.requiredString("ResponseInfo.statusCode", w.ResponseInfo.StatusCode)
	nh := v.required("Properties.Nh", w.Properties.Nh)
	if v.err != nil {
		return nil, v.err
	}
	v.nonNegative("Properties.Nh", nh)
	if v.err != nil {
		return nil, v.err
	}

	catalogs := make([]CatalogEntry, 0, len(*w.Catalogs))
	for i, we := range *w.Catalogs {
		entry, err := buildEntry(fmt.Sprintf("Catalogs[%d]", i), we)
		if err != nil {
			return nil, err
		}
		catalogs = append(catalogs, entry)
	}

	return &Response{
		ResponseInfo: ResponseInfo{StatusCode: status, Message: w.ResponseInfo.Message},
		Properties:   Properties{Nh: nh},
		Catalogs:     catalogs,
	}, nil
}

func buildEntry(path string, we wireEntry) (CatalogEntry, error) {
	v := validator{prefix: path}
	if we.Catalog == nil {
		v.fail("Catalog", "is required")
	}
	if we.SourceData == nil {
		v.fail("SourceData", "is required")
	}
	if v.err != nil {
		return CatalogEntry{}, v.err
	}

	name := v.requiredString("Catalog.CatalogName", we.Catalog.CatalogName)
	radius := v.required("Catalog.ErrorRadius", we.Catalog.ErrorRadius)
	if v.err != nil {
		return CatalogEntry{}, v.err
	}
	v.nonNegative("Catalog.ErrorRadius", radius)
	if v.err != nil {
		return CatalogEntry{}, v.err
	}

	rows := make([]Row, 0, len(*we.SourceData))
	for j, raw := range *we.SourceData {
		row, err := ResolveRow(raw)
		if err != nil {
			return CatalogEntry{}, withPrefix(fmt.Sprintf("%s.SourceData[%d]", path, j), err)
		}
		rows = append(rows, row)
	}

	return CatalogEntry{
		Catalog:    Catalog{CatalogName: name, ErrorRadius: radius},
		SourceData: rows,
	}, nil
}

// validator records the first failed check.
type validator struct {
	prefix string
	err    *SchemaError
}

func (v *validator) fail(field, format string, args ...any) {
	if v.err == nil {
		v.err = schemaErr(joinPath(v.prefix, field), format, args...)
	}
}

func (v *validator) required(field string, p *float64) float64 {
	if p == nil {
		v.fail(field, "is required")
		return 0
	}
	return *p
}

func (v *validator) requiredString(field string, p *string) string {
	if p == nil {
		v.fail(field, "is required")
		return ""
	}
	return *p
}

func (v *validator) positive(field string, x float64) {
	if !(x > 0) {
		v.fail(field, "must be greater than 0, got %g", x)
	}
}

func (v *validator) nonNegative(field string, x float64) {
	if !(x >= 0) {
		v.fail(field, "must be greater than or equal to 0, got %g", x)
	}
}

func (v *validator) optionalNonNegative(field string, p *float64) {
	if p != nil {
		v.nonNegative(field, *p)
	}
}

func joinPath(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	default:
		return prefix + "." + field
	}
}

// withPrefix re-roots a SchemaError path under prefix.
func withPrefix(prefix string, err error) error {
	var se *SchemaError
	if errors.As(err, &se) {
		return &SchemaError{Path: joinPath(prefix, se.Path), Reason: se.Reason, Err: se.Err}
	}
	return &SchemaError{Path: prefix, Reason: err.Error(), Err: err}
}

func toSchemaError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &SchemaError{
			Path:   typeErr.Field,
			Reason: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
			Err:    err,
		}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SchemaError{Reason: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), Err: err}
	}
	return &SchemaError{Reason: err.Error(), Err: err}
}
