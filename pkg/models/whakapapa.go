package models

// Whakapapa usage tags. Origin info describes where a name comes from;
// ancestor info records ancestry narrative. History is append-only: new rows
// never replace prior ones.
const (
	WhakapapaUsageOrigin   = "info_origi"
	WhakapapaUsageAncestor = "info_ancestor"
)

// AddWhakapapaRequest is the form body for POST /add_whakapapa.
type AddWhakapapaRequest struct {
	FeatureNameID int64  `form:"feature_name_id" json:"feature_name_id" validate:"required"`
	WhakapapaText string `form:"whakapapa_text" json:"whakapapa_text" validate:"required"`
	UpdatedBy     string `form:"updated_by" json:"updated_by" validate:"required"`
}

// AddAncestorRequest is the form body for POST /add_ancestor.
type AddAncestorRequest struct {
	FeatureNameID int64  `form:"feature_name_id" json:"feature_name_id" validate:"required"`
	AncestorText  string `form:"ancestor_text" json:"ancestor_text" validate:"required"`
	UpdatedBy     string `form:"updated_by" json:"updated_by" validate:"required"`
}
