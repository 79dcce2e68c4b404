package models

import "encoding/json"

// FeatureNameMatch is one row of a feature-name search result.
type FeatureNameMatch struct {
	FeatureName string `json:"featurename" db:"featurename"`
	ID          int64  `json:"id" db:"id"`
}

// FeatureMetadata merges the three metadata reads for one feature name: the
// classification and description tied to a source citation, the sibling names
// of the same feature partitioned by language, and the latest origin
// whakapapa. OtherNames is always a string, possibly empty; the pointer
// fields are null when the database holds no value.
type FeatureMetadata struct {
	FeatureType        *string `json:"feature_type"`
	FeatureDescription *string `json:"feature_description"`
	Source             string  `json:"source"`
	OtherNames         string  `json:"other_names"`
	MaoriName          *string `json:"maori_name"`
	Whakapapa          *string `json:"whakapapa"`
}

// SiblingName is a name variant of the same feature in a given language.
type SiblingName struct {
	FeatureName string  `db:"featurename"`
	Language    *string `db:"language"`
}

// GeometryEntry is one geometry representation of a feature, serialized as
// GeoJSON text and tagged with its storage kind.
type GeometryEntry struct {
	Geometry      string  `json:"geometry" db:"geometry"`
	Type          string  `json:"type" db:"type"`
	FeatureNameID int64   `json:"featurename_id" db:"featurename_id"`
	Source        *string `json:"source" db:"source"`
}

// SearchRequest is the form body for POST /search.
type SearchRequest struct {
	SearchTerm string `form:"search_term" json:"search_term"`
}

// InitialSourceRequest is the form body for POST /get_initial_source.
type InitialSourceRequest struct {
	FeatureNameID int64 `form:"feature_name_id" json:"feature_name_id" validate:"required"`
}

// MetadataRequest is the form body for POST /get_feature_metadata.
type MetadataRequest struct {
	FeatureNameID int64  `form:"feature_name_id" json:"feature_name_id" validate:"required"`
	FeatureName   string `form:"feature_name" json:"feature_name" validate:"required"`
	Source        string `form:"source" json:"source" validate:"required"`
}

// RunQueryRequest is the form body for POST /run_query.
type RunQueryRequest struct {
	SQL string `form:"sql" json:"sql" validate:"required"`
}

// GeometriesRequest is the form body for POST /get_geometries.
type GeometriesRequest struct {
	FeatureName string `form:"feature_name" json:"feature_name" validate:"required"`
}

// AddFeatureRequest is the JSON body for POST /add_feature. Geometry carries a
// GeoJSON Feature-like wrapper; its inner geometry member is validated and
// stored. Whakapapa is optional origin text recorded alongside the new name.
type AddFeatureRequest struct {
	Name               string          `json:"name" validate:"required"`
	FeatureType        string          `json:"feature_type" validate:"required"`
	Creator            string          `json:"creator" validate:"required"`
	FeatureDescription string          `json:"feature_description" validate:"required"`
	Geometry           json.RawMessage `json:"geometry" validate:"required"`
	Whakapapa          string          `json:"whakapapa,omitempty"`
}
