package clienttest

import (
	"strings"

	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/models/search"
)

// Catalog is the in-memory data served by the fake API. Listing endpoints
// serve slices in the order they appear here, so tests can page through
// collections deterministically.
type Catalog struct {
	// Me is the profile served by /v1/me.
	Me models.User
	// Users are the profiles served by /v1/users/{id}.
	Users []models.User
	// Playlists is every playlist the fake knows about, with full track
	// listings. Search and per-user listings draw from this set.
	Playlists []*PlaylistEntry
	// MyPlaylists names the playlists served by /v1/me/playlists, in order.
	MyPlaylists []models.ID
	// SavedTracks is the current user's library, most recently saved first.
	SavedTracks []models.SavedTrack
	// Followed is the users the current user follows, in cursor order.
	Followed []models.User
	// Tracks is the track catalog searched by /v1/search.
	Tracks []models.Track
	// FeaturedMessage and FeaturedIDs make up the featured listing.
	FeaturedMessage string
	FeaturedIDs     []models.ID
}

// PlaylistEntry is a playlist and its full track listing. Description and
// Followers only appear in the full representation served by the playlist
// detail endpoint.
type PlaylistEntry struct {
	Playlist    models.SimplifiedPlaylist
	Description string
	Followers   int
	Tracks      []models.PlaylistTrack
}

func (c *Catalog) playlist(id models.ID) *PlaylistEntry {
	for _, entry := range c.Playlists {
		if entry.Playlist.ID == id {
			return entry
		}
	}
	return nil
}

func (c *Catalog) user(id models.ID) (models.User, bool) {
	for _, user := range c.Users {
		if user.ID == id {
			return user, true
		}
	}
	return models.User{}, false
}

func (c *Catalog) playlistsOwnedBy(userID models.ID) []*PlaylistEntry {
	var owned []*PlaylistEntry
	for _, entry := range c.Playlists {
		if entry.Playlist.Owner != nil && entry.Playlist.Owner.ID == userID {
			owned = append(owned, entry)
		}
	}
	return owned
}

// playlistMatches reports whether a playlist satisfies the search query's
// term and any playlist filter fields.
func playlistMatches(query search.Query, playlist models.SimplifiedPlaylist) bool {
	if query.Term != nil && !containsFold(playlist.Name, query.Term.String()) {
		return false
	}
	pq := search.NewPlaylistQuery(&query)
	if f := pq.GetOwnerFilter(); f != nil {
		if playlist.Owner == nil || !strings.EqualFold(playlist.Owner.DisplayName, f.ValueString()) {
			return false
		}
	}
	if f := pq.GetPublicFilter(); f != nil {
		if playlist.Public == nil || *playlist.Public != f.ValueBool() {
			return false
		}
	}
	return true
}

// trackMatches reports whether a track satisfies the search query's term and
// any track filter fields.
func trackMatches(query search.Query, track models.Track) bool {
	if query.Term != nil && !containsFold(track.Name, query.Term.String()) {
		return false
	}
	tq := search.NewTrackQuery(&query)
	if f := tq.GetArtistFilter(); f != nil {
		found := false
		for _, artist := range track.Artists {
			if strings.EqualFold(artist.DisplayName, f.ValueString()) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f := tq.GetExplicitFilter(); f != nil && track.Explicit != f.ValueBool() {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
