package models

import (
	"encoding/json"
	"errors"

	"github.com/melodio/melodio-go/common/gerror"
)

// TrackRef points at a playlist's track listing without embedding it.
type TrackRef struct {
	URL   string `json:"href"`
	Total int    `json:"total"`
}

// SimplifiedPlaylist is the compact playlist representation used in
// listings. The track list is carried by reference, not embedded.
type SimplifiedPlaylist struct {
	ID            ID        `json:"id"`
	Name          string    `json:"name"`
	URL           string    `json:"href,omitempty"`
	SnapshotID    string    `json:"snapshot_id,omitempty"`
	Collaborative bool      `json:"collaborative,omitempty"`
	Public        *bool     `json:"public,omitempty"`
	Owner         *User     `json:"owner,omitempty"`
	Images        []Image   `json:"images,omitempty"`
	Tracks        *TrackRef `json:"tracks,omitempty"`
}

func (m SimplifiedPlaylist) Validate() error {
	if !m.ID.Valid() {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"id"})
	}
	if m.Name == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"name"})
	}
	if m.Owner != nil {
		if err := m.Owner.Validate(); err != nil {
			return gerror.WithPathPrefix(err, "owner")
		}
	}
	for i, image := range m.Images {
		if err := image.Validate(); err != nil {
			return gerror.WithPathPrefix(err, gerror.IndexedStep("images", i))
		}
	}
	return nil
}

// PlaylistTrack is one entry in a playlist's track listing.
type PlaylistTrack struct {
	AddedAt *Time  `json:"added_at,omitempty"`
	AddedBy *User  `json:"added_by,omitempty"`
	Track   *Track `json:"track"`
}

func (m PlaylistTrack) Validate() error {
	if m.Track == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"track"})
	}
	if err := m.Track.Validate(); err != nil {
		return gerror.WithPathPrefix(err, "track")
	}
	return nil
}

// Playlist is the full representation served by the playlist detail
// endpoint, with the first page of the track listing embedded.
type Playlist struct {
	ID            ID                  `json:"id"`
	Name          string              `json:"name"`
	URL           string              `json:"href,omitempty"`
	Description   *string             `json:"description,omitempty"`
	SnapshotID    string              `json:"snapshot_id,omitempty"`
	Collaborative bool                `json:"collaborative,omitempty"`
	Public        *bool               `json:"public,omitempty"`
	Owner         *User               `json:"owner,omitempty"`
	Images        []Image             `json:"images,omitempty"`
	Followers     *Followers          `json:"followers,omitempty"`
	Tracks        Page[PlaylistTrack] `json:"tracks"`
}

// UnmarshalJSON decodes a playlist document, qualifying any structured error
// from the embedded track page with the tracks key. The track page is the
// only nested decoder in a playlist document that reports structured errors.
func (m *Playlist) UnmarshalJSON(data []byte) error {
	type playlistDocument Playlist
	var doc playlistDocument
	err := json.Unmarshal(data, &doc)
	if err != nil {
		var gErr gerror.Error
		if errors.As(err, &gErr) {
			return gerror.WithPathPrefix(err, "tracks")
		}
		return err
	}
	*m = Playlist(doc)
	return nil
}

func (m Playlist) Validate() error {
	if !m.ID.Valid() {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"id"})
	}
	if m.Name == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"name"})
	}
	if m.Tracks.URL() == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"tracks"})
	}
	if m.Owner != nil {
		if err := m.Owner.Validate(); err != nil {
			return gerror.WithPathPrefix(err, "owner")
		}
	}
	for i, image := range m.Images {
		if err := image.Validate(); err != nil {
			return gerror.WithPathPrefix(err, gerror.IndexedStep("images", i))
		}
	}
	return nil
}

// FeaturedPlaylists is the featured listing response: a display message
// plus a paging object under the playlists key. The wrapper key is fixed
// for this endpoint, so the page is declared as a direct field instead of
// going through the generic wrapped-shape fallback.
type FeaturedPlaylists struct {
	Message   string                   `json:"message,omitempty"`
	Playlists Page[SimplifiedPlaylist] `json:"playlists"`
}

// UnmarshalJSON decodes a featured listing, qualifying any structured error
// from the embedded page with the playlists key.
func (m *FeaturedPlaylists) UnmarshalJSON(data []byte) error {
	type featuredDocument FeaturedPlaylists
	var doc featuredDocument
	err := json.Unmarshal(data, &doc)
	if err != nil {
		var gErr gerror.Error
		if errors.As(err, &gErr) {
			return gerror.WithPathPrefix(err, "playlists")
		}
		return err
	}
	*m = FeaturedPlaylists(doc)
	return nil
}

func (m FeaturedPlaylists) Validate() error {
	if m.Playlists.URL() == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"playlists"})
	}
	return nil
}
