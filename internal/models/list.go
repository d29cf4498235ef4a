package models

const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ListParams carries the optional query filters of a list call. A nil field
// is left out of the query string entirely.
type ListParams struct {
	Limit  *int
	Order  *string
	After  *string
	Before *string
	// Filter is the per-file status filter (in_progress, completed, failed, cancelled).
	Filter  *string
	Purpose *string
}

// ListPage is one page of a cursor-paginated listing.
type ListPage[T any] struct {
	Object  string  `json:"object,omitempty"`
	Data    []T     `json:"data"`
	FirstID *string `json:"first_id"`
	LastID  *string `json:"last_id"`
	HasMore bool    `json:"has_more"`
}

// NextCursor returns the "after" value for the following page, or "" when
// this is the last page.
func (p ListPage[T]) NextCursor() string {
	if !p.HasMore || p.LastID == nil {
		return ""
	}
	return *p.LastID
}
