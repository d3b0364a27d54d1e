package models

import "github.com/melodio/melodio-go/common/gerror"

// Image is artwork for a playlist, track or user profile. The API serves
// several sizes of the same artwork, largest first.
type Image struct {
	URL string `json:"url"`
	// Height and Width are in pixels, when the API knows them.
	Height *int `json:"height,omitempty"`
	Width  *int `json:"width,omitempty"`
}

func (m Image) Validate() error {
	if m.URL == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"url"})
	}
	return nil
}
