package geometry

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		wantKind Kind
	}{
		{
			name:     "point",
			raw:      `{"type":"Point","coordinates":[175.0,-41.0]}`,
			wantType: "Point",
			wantKind: KindPoint,
		},
		{
			name:     "linestring",
			raw:      `{"type":"LineString","coordinates":[[174.0,-41.0],[175.0,-41.5]]}`,
			wantType: "LineString",
			wantKind: KindLine,
		},
		{
			name:     "multilinestring",
			raw:      `{"type":"MultiLineString","coordinates":[[[174.0,-41.0],[175.0,-41.5]]]}`,
			wantType: "MultiLineString",
			wantKind: KindLine,
		},
		{
			name:     "polygon",
			raw:      `{"type":"Polygon","coordinates":[[[174.0,-41.0],[175.0,-41.0],[175.0,-42.0],[174.0,-41.0]]]}`,
			wantType: "Polygon",
			wantKind: KindPolygon,
		},
		{
			name:     "multipolygon",
			raw:      `{"type":"MultiPolygon","coordinates":[[[[174.0,-41.0],[175.0,-41.0],[175.0,-42.0],[174.0,-41.0]]]]}`,
			wantType: "MultiPolygon",
			wantKind: KindPolygon,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, tc.wantType, parsed.GeoJSONType)
			assert.Equal(t, tc.wantKind, parsed.Kind)
			assert.JSONEq(t, tc.raw, parsed.GeoJSON)
		})
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name:    "not json",
			raw:     `not json at all`,
			wantErr: "Invalid GeoJSON structure",
		},
		{
			name:    "unsupported type",
			raw:     `{"type":"GeometryCollection","geometries":[]}`,
			wantErr: "Unsupported geometry type: GeometryCollection",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(json.RawMessage(tc.raw))
			require.Error(t, err)
			assert.True(t, httperror.IsHTTPError(err))
			assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestParseFeature(t *testing.T) {
	raw := json.RawMessage(`{"type":"Feature","properties":{"name":"Te Mata Peak"},"geometry":{"type":"Point","coordinates":[176.895,-39.7]}}`)

	parsed, err := ParseFeature(raw)
	require.NoError(t, err)
	assert.Equal(t, KindPoint, parsed.Kind)
	assert.JSONEq(t, `{"type":"Point","coordinates":[176.895,-39.7]}`, parsed.GeoJSON)
}

func TestParseFeatureWithoutGeometry(t *testing.T) {
	_, err := ParseFeature(json.RawMessage(`{"type":"Feature","properties":{}}`))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
}

func TestChildTableCoversEveryKind(t *testing.T) {
	for _, kind := range []Kind{KindPoint, KindLine, KindPolygon} {
		assert.NotEmpty(t, ChildTable[kind])
	}
}
