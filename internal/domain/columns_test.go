package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumns_Order(t *testing.T) {
	var names []string
	for _, c := range Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"Name", "Frequency", "Nufnu", "FrequencyError", "NufnuError",
		"AngularDistance", "StartTime", "StopTime", "Info", "Catalog", "ErrorRadius",
	}, names)
}

func TestColumns_ReturnsCopy(t *testing.T) {
	cols := Columns()
	cols[0].Name = "mutated"
	assert.Equal(t, "Name", Columns()[0].Name)
}

func TestColumns_Units(t *testing.T) {
	units := map[string]Unit{}
	for _, c := range Columns() {
		units[c.Name] = c.Unit
	}
	assert.Equal(t, UnitNone, units["Name"])
	assert.Equal(t, UnitHz, units["Frequency"])
	assert.Equal(t, UnitHz, units["FrequencyError"])
	assert.Equal(t, UnitFlux, units["Nufnu"])
	assert.Equal(t, UnitFlux, units["NufnuError"])
	assert.Equal(t, UnitArcsec, units["AngularDistance"])
	assert.Equal(t, UnitDay, units["StartTime"])
	assert.Equal(t, UnitDay, units["StopTime"])
	assert.Equal(t, UnitNone, units["Info"])
	assert.Equal(t, UnitNone, units["Catalog"])
	assert.Equal(t, UnitArcsec, units["ErrorRadius"])
}

func TestColumnsFrom(t *testing.T) {
	assert.Len(t, ColumnsFrom(FromSourceData), 9)
	assert.Equal(t, []ColumnSpec{ColCatalog, ColErrorRadius}, ColumnsFrom(FromCatalog))
}

func TestLookupColumn(t *testing.T) {
	c, ok := LookupColumn("StopTime")
	assert.True(t, ok)
	assert.Equal(t, ColStopTime, c)

	_, ok = LookupColumn("Flux")
	assert.False(t, ok)
}

func TestMetadata(t *testing.T) {
	assert.Equal(t, []MetadataSpec{{Name: "Nh", Unit: UnitPerSqCm}}, Metadata())
}
