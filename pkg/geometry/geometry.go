// Package geometry validates incoming GeoJSON and resolves which of the three
// spatial storage kinds a geometry belongs to.
package geometry

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/paulmach/orb/geojson"
)

// Kind is the storage classification of a geometry. One
// spatialgeometryrepresentation row has its geometry in exactly one of the
// three child tables, selected by Kind.
type Kind string

const (
	KindPoint   Kind = "point"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
)

// kindByGeoJSONType is the set of accepted GeoJSON geometry types. Anything
// else (GeometryCollection, MultiPoint, unknown tags) is rejected up front.
var kindByGeoJSONType = map[string]Kind{
	"Point":           KindPoint,
	"LineString":      KindLine,
	"MultiLineString": KindLine,
	"Polygon":         KindPolygon,
	"MultiPolygon":    KindPolygon,
}

// ChildTable maps a Kind to its geometry child table. Table selection always
// goes through this map, never through string concatenation of request input.
var ChildTable = map[Kind]string{
	KindPoint:   "spatialgeometryrepresentation_point",
	KindLine:    "spatialgeometryrepresentation_line",
	KindPolygon: "spatialgeometryrepresentation_polygon",
}

// Parsed is a validated geometry ready for insertion.
type Parsed struct {
	// GeoJSONType is the original GeoJSON type tag ("Point", "MultiPolygon", ...).
	GeoJSONType string
	// Kind selects the child table.
	Kind Kind
	// GeoJSON is the canonical geometry text passed to ST_GeomFromGeoJSON.
	GeoJSON string
}

// featureEnvelope mirrors the client payload: a GeoJSON Feature-like object
// whose geometry member holds the actual geometry.
type featureEnvelope struct {
	Geometry json.RawMessage `json:"geometry"`
}

// ParseFeature extracts and validates the geometry member of a GeoJSON
// Feature-like payload.
func ParseFeature(raw json.RawMessage) (*Parsed, error) {
	var envelope featureEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Invalid GeoJSON structure")
	}
	if len(envelope.Geometry) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Invalid GeoJSON structure")
	}
	return Parse(envelope.Geometry)
}

// Parse validates a bare GeoJSON geometry and resolves its storage kind.
func Parse(raw json.RawMessage) (*Parsed, error) {
	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Invalid GeoJSON structure")
	}

	kind, ok := kindByGeoJSONType[geom.Type]
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unsupported geometry type: %s", geom.Type))
	}

	canonical, err := json.Marshal(geojson.NewGeometry(geom.Geometry()))
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "Invalid GeoJSON structure")
	}

	return &Parsed{
		GeoJSONType: geom.Type,
		Kind:        kind,
		GeoJSON:     string(canonical),
	}, nil
}
