package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRow(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind RowKind
	}{
		{"full measurement", `{"Frequency":1e14,"Nufnu":1e-11,"FrequencyError":1e12,"NufnuError":1e-12,"Name":"src","AngularDistance":0.3,"StartTime":55000,"StopTime":55001,"Info":""}`, RowMeasurement},
		{"minimal measurement", `{"Frequency":1e14,"Nufnu":-1e-11,"FrequencyError":0,"NufnuError":-1e-12}`, RowMeasurement},
		{"measurement with info flag", `{"Frequency":1e14,"Nufnu":1e-11,"FrequencyError":0,"NufnuError":0,"Info":"Upper Limit"}`, RowMeasurement},
		{"warning stub", `{"Info":"Upper Limit"}`, RowWarning},
		{"partial numeric with info", `{"Frequency":1e14,"Info":"Warning"}`, RowWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := ResolveRow([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, row.Kind())

			_, isMeasurement := row.Measurement()
			_, isWarning := row.Warning()
			assert.NotEqual(t, isMeasurement, isWarning, "a row is exactly one variant")
		})
	}
}

func TestResolveRow_InvalidMeasurementIsNotDemoted(t *testing.T) {
	// Carries the numeric keys and an Info string, but Frequency is out of domain.
	raw := `{"Frequency":-5,"Nufnu":1,"FrequencyError":0,"NufnuError":0,"Info":"Upper Limit"}`
	_, err := ResolveRow([]byte(raw))
	requireSchemaError(t, err, "Frequency")
}

func TestResolveRow_Rejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"not an object", `[1,2]`, ""},
		{"null", `null`, ""},
		{"empty object", `{}`, ""},
		{"info not a string", `{"Info":42}`, ""},
		{"null required field", `{"Frequency":1e9,"Nufnu":null,"FrequencyError":0,"NufnuError":0}`, "Nufnu"},
		{"negative frequency error", `{"Frequency":1e9,"Nufnu":1,"FrequencyError":-1,"NufnuError":0}`, "FrequencyError"},
		{"negative angular distance", `{"Frequency":1e9,"Nufnu":1,"FrequencyError":0,"NufnuError":0,"AngularDistance":-0.1}`, "AngularDistance"},
		{"negative start time", `{"Frequency":1e9,"Nufnu":1,"FrequencyError":0,"NufnuError":0,"StartTime":-1}`, "StartTime"},
		{"negative stop time", `{"Frequency":1e9,"Nufnu":1,"FrequencyError":0,"NufnuError":0,"StopTime":-1}`, "StopTime"},
		{"name wrong type", `{"Frequency":1e9,"Nufnu":1,"FrequencyError":0,"NufnuError":0,"Name":7}`, "Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveRow([]byte(tt.raw))
			requireSchemaError(t, err, tt.path)
		})
	}
}

func TestResolveRow_MissingFieldsNamed(t *testing.T) {
	_, err := ResolveRow([]byte(`{"Frequency":1e9,"Nufnu":1}`))
	se := requireSchemaError(t, err, "")
	assert.Contains(t, se.Reason, "FrequencyError, NufnuError")
}

func TestRow_MarshalJSON(t *testing.T) {
	name := "src"
	row := NewMeasurementRow(Measurement{Frequency: 1e9, Nufnu: 2, FrequencyError: 0, NufnuError: 0.1, Name: &name})
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Frequency":1e9,"Nufnu":2,"FrequencyError":0,"NufnuError":0.1,"Name":"src","AngularDistance":null,"StartTime":null,"StopTime":null,"Info":null}`, string(data))

	data, err = json.Marshal(NewWarningRow(WarningStub{Info: "Upper Limit"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"Info":"Upper Limit"}`, string(data))

	_, err = json.Marshal(Row{})
	require.Error(t, err)
}

func TestRow_UnmarshalJSON(t *testing.T) {
	var rows []Row
	require.NoError(t, json.Unmarshal([]byte(`[{"Info":"x"},{"Frequency":1,"Nufnu":1,"FrequencyError":0,"NufnuError":0}]`), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, RowWarning, rows[0].Kind())
	assert.Equal(t, RowMeasurement, rows[1].Kind())
}
