// Command validate runs integrity checks on saved SED Builder responses: schema
// validation, row classification, table projection, Jetset conversion and a
// JSON round trip. It exits non-zero if any check fails.
//
// Usage:
//
//	go run ./cmd/validate internal/domain/testdata/*.json
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/couchcryptid/sedbuilder/internal/adapter/sedfile"
	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/table"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s file.json [file.json ...]\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	os.Exit(run(os.Stdout, flag.Args()))
}

func run(out io.Writer, paths []string) int {
	fmt.Fprintln(out, "=== SED Response Integrity Validation ===")

	failed := 0
	for _, path := range paths {
		fmt.Fprintf(out, "\n%s\n", path)

		resp, err := sedfile.Load(path)
		if err != nil {
			fmt.Fprintf(out, "  %-30s \033[31mFAIL\033[0m\n      %v\n", "schema", err)
			failed++
			continue
		}

		phases := []*phase{
			validateRows(resp),
			validateProjection(resp),
			validateJetset(resp),
			validateRoundTrip(resp),
		}

		counts := resp.CountRows()
		fmt.Fprintf(out, "  %-30s \033[32mPASS\033[0m (status %s, %d catalogs, %d measurements, %d warnings)\n",
			"schema", resp.ResponseInfo.StatusCode, len(resp.Catalogs), counts.Measurements, counts.Warnings)
		for _, p := range phases {
			if p.passed() {
				fmt.Fprintf(out, "  %-30s \033[32mPASS\033[0m\n", p.name)
				continue
			}
			failed++
			fmt.Fprintf(out, "  %-30s \033[31mFAIL (%d errors)\033[0m\n", p.name, len(p.errors))
			for i, e := range p.errors {
				if i >= 20 {
					fmt.Fprintf(out, "      ... and %d more\n", len(p.errors)-20)
					break
				}
				fmt.Fprintf(out, "      %s\n", e)
			}
		}
	}

	fmt.Fprintln(out)
	if failed > 0 {
		fmt.Fprintf(out, "%d check(s) failed\n", failed)
		return 1
	}
	fmt.Fprintln(out, "All checks passed")
	return 0
}

// validateRows checks that every row resolved to exactly one variant and that
// measurement fields sit in their domains.
func validateRows(resp *domain.Response) *phase {
	p := &phase{name: "row classification"}
	for i, entry := range resp.Catalogs {
		if entry.Catalog.CatalogName == "" {
			p.errorf("Catalogs[%d]: empty CatalogName", i)
		}
		for j, row := range entry.SourceData {
			switch row.Kind() {
			case domain.RowMeasurement:
				m, _ := row.Measurement()
				if m.Frequency <= 0 {
					p.errorf("Catalogs[%d].SourceData[%d]: Frequency %g <= 0", i, j, m.Frequency)
				}
			case domain.RowWarning:
				w, _ := row.Warning()
				if w.Info == "" {
					p.errorf("Catalogs[%d].SourceData[%d]: warning row without Info", i, j)
				}
			default:
				p.errorf("Catalogs[%d].SourceData[%d]: unresolved row", i, j)
			}
		}
	}
	return p
}

// validateProjection checks the flat table against the response it came from.
func validateProjection(resp *domain.Response) *phase {
	p := &phase{name: "table projection"}
	t := table.Project(resp)

	if got, want := t.Len(), resp.CountRows().Measurements; got != want {
		p.errorf("table has %d rows, response has %d measurements", got, want)
	}
	specs := domain.Columns()
	if len(t.ColumnNames()) != len(specs) {
		p.errorf("table has %d columns, registry has %d", len(t.ColumnNames()), len(specs))
	}
	for i, name := range t.ColumnNames() {
		if i < len(specs) && specs[i].Name != name {
			p.errorf("column %d is %q, want %q", i, name, specs[i].Name)
		}
	}

	catalogs, _ := t.Column(domain.ColCatalog.Name)
	row := 0
	for _, entry := range resp.Catalogs {
		for range entry.Measurements() {
			if row < catalogs.Len() && catalogs.Strings[row] != entry.Catalog.CatalogName {
				p.errorf("row %d: Catalog %q, want %q", row, catalogs.Strings[row], entry.Catalog.CatalogName)
			}
			row++
		}
	}
	return p
}

// validateJetset converts at z=0 and checks the Jetset column invariants.
func validateJetset(resp *domain.Response) *phase {
	p := &phase{name: "jetset conversion"}
	src := table.Project(resp)
	jt, err := table.Jetset(src, 0)
	if err != nil {
		p.errorf("convert: %v", err)
		return p
	}
	if jt.Len() != src.Len() {
		p.errorf("jetset table has %d rows, flat table has %d", jt.Len(), src.Len())
	}
	for _, name := range []string{"T_start", "T_stop"} {
		c, _ := jt.Column(name)
		for i, v := range c.Floats {
			if math.IsNaN(v) {
				p.errorf("%s[%d] is NaN", name, i)
			}
		}
	}
	ul, _ := jt.Column("UL")
	for i, v := range ul.Bools {
		if v {
			p.errorf("UL[%d] is true", i)
		}
	}
	return p
}

// validateRoundTrip re-parses the serialized response and compares.
func validateRoundTrip(resp *domain.Response) *phase {
	p := &phase{name: "json round trip"}
	first, err := resp.ToJSON()
	if err != nil {
		p.errorf("marshal: %v", err)
		return p
	}
	again, err := domain.ParseResponse(first)
	if err != nil {
		p.errorf("re-parse: %v", err)
		return p
	}
	second, err := again.ToJSON()
	if err != nil {
		p.errorf("re-marshal: %v", err)
		return p
	}
	if !bytes.Equal(first, second) {
		p.errorf("serialization is not stable across a round trip")
	}
	var generic map[string]any
	if err := json.Unmarshal(first, &generic); err != nil {
		p.errorf("output is not a JSON object: %v", err)
	}
	return p
}
