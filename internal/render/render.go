// Package render turns a validated SED response into an output document in one
// of the supported formats.
package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/observability"
	"github.com/couchcryptid/sedbuilder/internal/table"
)

// Format names an output representation.
type Format string

const (
	FormatJSON   Format = "json"   // schema-shaped response
	FormatYAML   Format = "yaml"   // schema-shaped response
	FormatTable  Format = "table"  // flat table with units and metadata
	FormatCSV    Format = "csv"    // flat table rows
	FormatJetset Format = "jetset" // Jetset table with units and metadata
)

// ErrUnsupportedFormat is returned for a format name this package cannot render.
var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported output format", domain.ErrInvalidInput)

var contentTypes = map[Format]string{
	FormatJSON:   "application/json",
	FormatYAML:   "application/yaml",
	FormatTable:  "application/json",
	FormatCSV:    "text/csv",
	FormatJetset: "application/json",
}

// Formats lists every supported format in a stable order.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTable, FormatCSV, FormatJetset}
}

// ParseFormat accepts a format name, case-insensitively. Empty means json.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// ContentType is the MIME type of documents in this format.
func (f Format) ContentType() string {
	return contentTypes[f]
}

// Options carries per-format parameters. Jetset is required for FormatJetset.
type Options struct {
	Jetset *table.JetsetParams
}

// Document is a rendered response.
type Document struct {
	Format      Format
	ContentType string
	Body        []byte
	Stats       Stats
}

// Stats describes what a render kept and dropped.
type Stats struct {
	Catalogs        int
	Measurements    int
	WarningsDropped int
}

// Renderer renders responses and reports projection losses.
type Renderer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Renderer.
func New(logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{logger: logger, metrics: metrics}
}

// Render produces a document for resp. Parameter and format errors are
// returned before any work is done.
func (r *Renderer) Render(resp *domain.Response, f Format, opts Options) (Document, error) {
	if _, ok := contentTypes[f]; !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if f == FormatJetset {
		if opts.Jetset == nil {
			return Document{}, &domain.InputError{Field: "z", Reason: "is required for jetset output", Err: table.ErrInvalidRedshift}
		}
		if err := opts.Jetset.Validate(); err != nil {
			return Document{}, err
		}
	}

	counts := resp.CountRows()
	doc := Document{
		Format:      f,
		ContentType: f.ContentType(),
		Stats:       Stats{Catalogs: len(resp.Catalogs), Measurements: counts.Measurements},
	}

	var (
		body []byte
		err  error
	)
	switch f {
	case FormatJSON:
		body, err = resp.ToJSON()
	case FormatYAML:
		body, err = yaml.Marshal(resp)
	default:
		body, err = r.renderTable(resp, f, opts, counts)
		doc.Stats.WarningsDropped = counts.Warnings
	}
	if err != nil {
		return Document{}, fmt.Errorf("render %s: %w", f, err)
	}
	doc.Body = body
	return doc, nil
}

func (r *Renderer) renderTable(resp *domain.Response, f Format, opts Options, counts domain.RowCounts) ([]byte, error) {
	t := table.Project(resp)
	r.metrics.RowsProjected.Add(float64(t.Len()))
	if counts.Warnings > 0 {
		r.metrics.WarningRowsDropped.Add(float64(counts.Warnings))
		r.logger.Warn("warning rows left out of table",
			"dropped", counts.Warnings,
			"kept", t.Len(),
			"format", string(f),
		)
	}

	switch f {
	case FormatTable:
		return json.Marshal(t)
	case FormatCSV:
		return WriteCSV(t)
	case FormatJetset:
		jt, err := table.ToJetset(t, *opts.Jetset)
		if err != nil {
			return nil, err
		}
		return json.Marshal(jt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// WriteCSV renders the rows of t with a header of "Name [unit]" cells. Missing
// values are empty cells.
func WriteCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	cols := t.Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		if c.Unit != domain.UnitNone {
			header[i] = fmt.Sprintf("%s [%s]", c.Name, c.Unit)
		}
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	record := make([]string, len(cols))
	for row := range t.Len() {
		for i, c := range cols {
			record[i] = c.Format(row)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
