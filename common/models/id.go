package models

// ID uniquely identifies a resource within the catalog.
// IDs are opaque strings minted by the API; treat them as stable keys,
// not as structured data.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id ID) Valid() bool {
	return id != ""
}
