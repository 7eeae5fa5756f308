package fmpModel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFloatUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want float64
	}{
		{name: "number", json: `{"price": 123.45}`, want: 123.45},
		{name: "string number", json: `{"price": "123.45"}`, want: 123.45},
		{name: "null", json: `{"price": null}`, want: 0},
		{name: "empty string", json: `{"price": ""}`, want: 0},
		{name: "missing", json: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				Price FlexFloat `json:"price"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.json), &payload))
			assert.Equal(t, tt.want, payload.Price.Float64())
		})
	}
}

func TestFlexFloatUnmarshalRejectsGarbage(t *testing.T) {
	var f FlexFloat
	assert.Error(t, json.Unmarshal([]byte(`"not a number"`), &f))
}

func TestMoverUnmarshalMixedTypes(t *testing.T) {
	payload := `{
		"symbol": "AAPL",
		"name": "Apple Inc",
		"price": "189.5",
		"change": 2.31,
		"changesPercentage": "1.23"
	}`

	var m Mover
	require.NoError(t, json.Unmarshal([]byte(payload), &m))

	assert.Equal(t, "AAPL", m.Symbol)
	assert.Equal(t, 189.5, m.Price.Float64())
	assert.Equal(t, 2.31, m.Change.Float64())
	assert.Equal(t, 1.23, m.ChangesPercentage.Float64())
}
