package table

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sedbuilder/internal/domain"
)

func TestJetset_EndToEnd(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(endToEndJSON))
	require.NoError(t, err)

	jt, err := Jetset(Project(resp), 0.1)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "dx", "y", "dy", "T_start", "T_stop", "UL", "dataset"}, jt.ColumnNames())
	assert.Equal(t, []float64{1e14}, mustColumn(t, jt, "x").Floats)
	assert.Equal(t, []float64{1e12}, mustColumn(t, jt, "dx").Floats)
	assert.Equal(t, []float64{1e-11}, mustColumn(t, jt, "y").Floats)
	assert.Equal(t, []float64{1e-12}, mustColumn(t, jt, "dy").Floats)
	assert.Equal(t, []float64{0}, mustColumn(t, jt, "T_start").Floats)
	assert.Equal(t, []float64{0}, mustColumn(t, jt, "T_stop").Floats)
	assert.Equal(t, []bool{false}, mustColumn(t, jt, "UL").Bools)
	assert.Equal(t, []string{"C1"}, mustColumn(t, jt, "dataset").Strings)

	assert.Equal(t, Metadata{
		"z":          0.1,
		"UL_CL":      0.95,
		"restframe":  "obs",
		"data_scale": "lin-lin",
		"obj_name":   "new-src",
	}, jt.Meta())
}

func TestJetset_PreservesUnits(t *testing.T) {
	jt, err := Jetset(Project(parseFixture(t, "mrk421.json")), 0.031)
	require.NoError(t, err)

	assert.Equal(t, domain.UnitHz, mustColumn(t, jt, "x").Unit)
	assert.Equal(t, domain.UnitHz, mustColumn(t, jt, "dx").Unit)
	assert.Equal(t, domain.UnitFlux, mustColumn(t, jt, "y").Unit)
	assert.Equal(t, domain.UnitFlux, mustColumn(t, jt, "dy").Unit)
	assert.Equal(t, domain.UnitDay, mustColumn(t, jt, "T_start").Unit)
	assert.Equal(t, domain.UnitDay, mustColumn(t, jt, "T_stop").Unit)
	assert.Equal(t, domain.UnitNone, mustColumn(t, jt, "UL").Unit)
}

func TestJetset_TimesNeverNaN(t *testing.T) {
	src := Project(parseFixture(t, "mrk421.json"))
	jt, err := Jetset(src, 0.031)
	require.NoError(t, err)
	require.Equal(t, src.Len(), jt.Len())

	assert.Equal(t, []float64{54682.0, 0, 0}, mustColumn(t, jt, "T_start").Floats)
	assert.Equal(t, []float64{57969.0, 0, 0}, mustColumn(t, jt, "T_stop").Floats)
	for _, v := range mustColumn(t, jt, "T_start").Floats {
		assert.False(t, math.IsNaN(v))
	}
	assert.Equal(t, []bool{false, false, false}, mustColumn(t, jt, "UL").Bools)

	// The source table is left untouched.
	assert.True(t, math.IsNaN(mustColumn(t, src, "StartTime").Floats[1]))
}

func TestJetset_EmptyTable(t *testing.T) {
	jt, err := Jetset(Project(parseFixture(t, "only_warnings.json")), 0)
	require.NoError(t, err)
	assert.Equal(t, 0, jt.Len())
	assert.Len(t, jt.ColumnNames(), 8)
}

func TestJetset_Options(t *testing.T) {
	jt, err := Jetset(Project(parseFixture(t, "mrk421.json")), 0.031,
		WithULConfidence(0.99),
		WithRestframe("source"),
		WithDataScale("log-log"),
		WithObjectName("Mrk421"),
		WithLegacyLayout(),
	)
	require.NoError(t, err)

	assert.True(t, jt.Has("data_set"))
	assert.False(t, jt.Has("dataset"))
	assert.Equal(t, 0.99, jt.Meta()["UL_CL"])
	assert.Equal(t, "src", jt.Meta()["restframe"])
	assert.Equal(t, "log-log", jt.Meta()["data_scale"])
	assert.Equal(t, "Mrk421", jt.Meta()["obj_name"])
}

func TestNewJetsetParams_Aliases(t *testing.T) {
	p, err := NewJetsetParams(0.5, WithRestframe("observed"), WithDataScale("linear-linear"))
	require.NoError(t, err)
	assert.Equal(t, RestframeObserved, p.Restframe)
	assert.Equal(t, DataScaleLinear, p.DataScale)
}

func TestNewJetsetParams_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		z        float64
		opts     []JetsetOption
		sentinel error
		field    string
	}{
		{"negative z", -0.1, nil, ErrInvalidRedshift, "z"},
		{"z above one", 1.5, nil, ErrInvalidRedshift, "z"},
		{"nan z", math.NaN(), nil, ErrInvalidRedshift, "z"},
		{"ul_cl above one", 0.1, []JetsetOption{WithULConfidence(1.01)}, ErrInvalidULConfidence, "ul_cl"},
		{"negative ul_cl", 0.1, []JetsetOption{WithULConfidence(-0.5)}, ErrInvalidULConfidence, "ul_cl"},
		{"bad restframe", 0.1, []JetsetOption{WithRestframe("rest")}, ErrInvalidRestframe, "restframe"},
		{"bad data scale", 0.1, []JetsetOption{WithDataScale("log-lin")}, ErrInvalidDataScale, "data_scale"},
		{"empty obj_name", 0.1, []JetsetOption{WithObjectName("")}, ErrEmptyObjectName, "obj_name"},
		{"blank obj_name", 0.1, []JetsetOption{WithObjectName("  ")}, ErrEmptyObjectName, "obj_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJetsetParams(tt.z, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.NotErrorIs(t, err, domain.ErrSchemaValidation)

			var ie *domain.InputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.field, ie.Field)
		})
	}
}

func TestJetset_InvalidParamsBeforeColumns(t *testing.T) {
	// Parameter errors win over missing columns.
	empty, err := New(nil)
	require.NoError(t, err)

	_, err = Jetset(empty, 2)
	assert.ErrorIs(t, err, ErrInvalidRedshift)
	assert.NotErrorIs(t, err, ErrMissingColumns)
}

func TestToJetset_MissingColumns(t *testing.T) {
	tbl := Project(parseFixture(t, "mrk421.json")).Without("StartTime", "Catalog")

	p, err := NewJetsetParams(0.1)
	require.NoError(t, err)

	_, err = ToJetset(tbl, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"StartTime", "Catalog"}, mce.Columns)
	assert.Contains(t, err.Error(), "StartTime, Catalog")
}

func TestToJetset_RevalidatesParams(t *testing.T) {
	tbl := Project(parseFixture(t, "mrk421.json"))
	_, err := ToJetset(tbl, JetsetParams{Z: 0.1, ULConfidence: 0.95, Restframe: "obs", DataScale: "lin-lin"})
	assert.ErrorIs(t, err, ErrEmptyObjectName)
}

func TestToJetset_MistypedColumns(t *testing.T) {
	src := Project(parseFixture(t, "mrk421.json"))
	cols := make([]Column, 0, len(src.Columns()))
	for _, c := range src.Columns() {
		if c.Name == "StartTime" {
			c = Column{Name: "StartTime", Kind: domain.KindString, Strings: make([]string, src.Len())}
		}
		cols = append(cols, c)
	}
	tbl, err := New(src.Meta(), cols...)
	require.NoError(t, err)

	_, err = Jetset(tbl.Without("Catalog"), 0.1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)

	var mce *MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Catalog"}, mce.Columns)
	assert.Equal(t, []string{"StartTime (str, want float64)"}, mce.Mistyped)
	assert.EqualError(t, err, "missing required columns: Catalog; wrong type: StartTime (str, want float64)")
}

func TestJetset_MetadataCarriesCanonicalTokens(t *testing.T) {
	jt, err := Jetset(Project(parseFixture(t, "mrk421.json")), 0.2,
		WithRestframe("source"), WithDataScale("linear-linear"))
	require.NoError(t, err)

	meta := jt.Meta()
	assert.Equal(t, RestframeSource, meta["restframe"])
	assert.Equal(t, DataScaleLinear, meta["data_scale"])
}

func TestJetsetParams_Validate(t *testing.T) {
	p := JetsetParams{Z: 0.1, ULConfidence: 0.95, Restframe: "observed", DataScale: "lin-lin", ObjectName: "x", DatasetColumn: DatasetColumn}
	require.NoError(t, p.Validate())
	assert.Equal(t, "observed", p.Restframe, "Validate leaves the receiver untouched")

	p.Z = 5
	assert.ErrorIs(t, p.Validate(), ErrInvalidRedshift)
}
