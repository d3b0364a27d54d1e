package models

const (
	// DirectionPrevious moves toward the start of a sequence or collection.
	DirectionPrevious Direction = "previous"
	// DirectionNext moves toward the end of a sequence or collection.
	DirectionNext Direction = "next"
)

// Direction selects which neighbor of a position to move to.
type Direction string

// Cursors holds the opaque markers a cursor-based paging object carries
// for addressing the adjacent result sets. Either marker may be absent
// when there is no such set.
type Cursors struct {
	Before *string `json:"before,omitempty"`
	After  *string `json:"after,omitempty"`
}
