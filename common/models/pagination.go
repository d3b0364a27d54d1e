package models

const (
	// DefaultPaginationLimit is used when a caller does not specify a page size.
	DefaultPaginationLimit = 20
	// MaxPaginationLimit is the largest page size the API accepts. The type
	// does not enforce it; requests above the maximum fail server-side.
	MaxPaginationLimit = 50
)

// Pagination captures the caller's intent for one page request. The zero
// value requests the API defaults: no limit, offset or cursor is sent.
//
// Offset and Cursor are alternative positioning schemes and a well-formed
// request uses at most one of them. The type does not forbid setting both;
// if a caller does, the cursor takes precedence when the request is
// serialized into query parameters.
type Pagination struct {
	// Limit is the maximum number of results to return.
	Limit int `json:"limit"`
	// Offset is the absolute index of the first result to return, or nil
	// to start from the beginning of the collection.
	Offset *int `json:"offset,omitempty"`
	// Cursor is the opaque key of the last item of the prior page, or
	// empty when positioning by offset.
	Cursor string `json:"cursor,omitempty"`
}

// NewPagination returns a Pagination for the first limit results.
func NewPagination(limit int) Pagination {
	return Pagination{Limit: limit}
}

// NewPaginationWithOffset returns a Pagination for limit results starting
// at the zero-based offset.
func NewPaginationWithOffset(limit int, offset int) Pagination {
	return Pagination{Limit: limit, Offset: &offset}
}

// NewPaginationAtPage returns a Pagination for the page'th group of limit
// results. Pages are numbered from 1; page 1 and below start at the
// beginning of the collection. Negative limits or pages are not validated
// and produce nonsense offsets.
func NewPaginationAtPage(limit int, page int) Pagination {
	if page > 1 {
		offset := limit * (page - 1)
		return Pagination{Limit: limit, Offset: &offset}
	}
	return Pagination{Limit: limit}
}

// NewPaginationWithCursor returns a Pagination for limit results following
// the item identified by cursor.
func NewPaginationWithCursor(limit int, cursor string) Pagination {
	return Pagination{Limit: limit, Cursor: cursor}
}
