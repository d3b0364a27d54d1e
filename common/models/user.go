package models

import "github.com/melodio/melodio-go/common/gerror"

// Followers summarizes how many users follow a resource.
type Followers struct {
	// Total is the follower count at the time the response was produced.
	Total *int `json:"total"`
	// URL links to the full follower listing, or empty if the API does not
	// expose one for this resource.
	URL string `json:"href,omitempty"`
}

func (m Followers) Validate() error {
	if m.Total == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"total"})
	}
	return nil
}

// User is a user or artist profile.
type User struct {
	ID          ID         `json:"id"`
	DisplayName string     `json:"display_name,omitempty"`
	URL         string     `json:"href,omitempty"`
	Images      []Image    `json:"images,omitempty"`
	Followers   *Followers `json:"followers,omitempty"`
}

func (m User) Validate() error {
	if !m.ID.Valid() {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"id"})
	}
	for i, image := range m.Images {
		if err := image.Validate(); err != nil {
			return gerror.WithPathPrefix(err, gerror.IndexedStep("images", i))
		}
	}
	if m.Followers != nil {
		if err := m.Followers.Validate(); err != nil {
			return gerror.WithPathPrefix(err, "followers")
		}
	}
	return nil
}
