package models

import "github.com/melodio/melodio-go/common/gerror"

// Track is a single playable track.
type Track struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	URL  string `json:"href,omitempty"`
	// Artists lists the performing artists in credit order.
	Artists []User `json:"artists,omitempty"`
	// DurationMS is the track length in milliseconds.
	DurationMS  int  `json:"duration_ms,omitempty"`
	Explicit    bool `json:"explicit,omitempty"`
	TrackNumber int  `json:"track_number,omitempty"`
	// PreviewURL links to a 30 second preview clip; not every track has one.
	PreviewURL *string `json:"preview_url,omitempty"`
}

func (m Track) Validate() error {
	if !m.ID.Valid() {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"id"})
	}
	if m.Name == "" {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"name"})
	}
	for i, artist := range m.Artists {
		if err := artist.Validate(); err != nil {
			return gerror.WithPathPrefix(err, gerror.IndexedStep("artists", i))
		}
	}
	return nil
}

// SavedTrack is a track in the user's library together with the time it
// was saved.
type SavedTrack struct {
	AddedAt *Time  `json:"added_at"`
	Track   *Track `json:"track"`
}

func (m SavedTrack) Validate() error {
	if m.AddedAt == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"added_at"})
	}
	if m.Track == nil {
		return gerror.NewErrMissingRequiredField(gerror.FieldPath{"track"})
	}
	if err := m.Track.Validate(); err != nil {
		return gerror.WithPathPrefix(err, "track")
	}
	return nil
}
