package models

// Meta carries result-set metadata on list responses.
type Meta struct {
	Count int `json:"count"`
}

// ListResponse is the {data, meta:{count}} envelope used by search, geometry
// and ad-hoc query responses.
type ListResponse[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewListResponse wraps rows in the standard envelope. A nil slice renders as
// an empty JSON array, never null.
func NewListResponse[T any](data []T) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return ListResponse[T]{Data: data, Meta: Meta{Count: len(data)}}
}

// SourceResponse is the body for /get_initial_source. Source is null when the
// feature name has no recorded source.
type SourceResponse struct {
	Source *string `json:"source"`
}

// NullDataResponse is the {data:null} body returned when a metadata lookup
// finds nothing for the given source citation. Absence is a valid outcome,
// not an error.
type NullDataResponse struct {
	Data any `json:"data"`
}

// SuccessResponse acknowledges a completed write.
type SuccessResponse struct {
	Success bool `json:"success"`
}
