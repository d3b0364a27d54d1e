package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/melodio/melodio-go/common/gerror"
)

func TestPlaylistDecodeEmbeddedTracks(t *testing.T) {
	data := []byte(`{
		"id": "pl1",
		"name": "Road Trip",
		"href": "https://api.melodio.dev/v1/playlists/pl1",
		"owner": {"id": "u1", "display_name": "Sam"},
		"tracks": {
			"href": "https://api.melodio.dev/v1/playlists/pl1/tracks",
			"limit": 100,
			"offset": 0,
			"total": 2,
			"items": [
				{"added_at": "2024-05-01T10:00:00Z", "track": {"id": "t1", "name": "Opening"}},
				{"track": {"id": "t2", "name": "Interlude"}}
			]
		}
	}`)
	var playlist Playlist
	require.NoError(t, json.Unmarshal(data, &playlist))
	require.NoError(t, playlist.Validate())

	require.Equal(t, ID("pl1"), playlist.ID)
	require.Equal(t, "Road Trip", playlist.Name)
	require.NotNil(t, playlist.Owner)
	require.Equal(t, ID("u1"), playlist.Owner.ID)

	require.Equal(t, 2, playlist.Tracks.Len())
	total, ok := playlist.Tracks.Total()
	require.True(t, ok)
	require.Equal(t, 2, total)
	entry, err := playlist.Tracks.At(0)
	require.NoError(t, err)
	require.Equal(t, ID("t1"), entry.Track.ID)
	require.NotNil(t, entry.AddedAt)
	require.Equal(t, "2024-05-01T10:00:00Z", entry.AddedAt.Format(time.RFC3339))
}

func TestFeaturedPlaylistsDecode(t *testing.T) {
	data := []byte(`{"message":"hi","playlists":{"items":[],"href":"https://x/y","limit":20,"next":null,"offset":0,"previous":null,"total":0}}`)
	var featured FeaturedPlaylists
	require.NoError(t, json.Unmarshal(data, &featured))
	require.NoError(t, featured.Validate())

	require.Equal(t, "hi", featured.Message)
	require.Equal(t, 0, featured.Playlists.Len())
	// A reported total of zero is preserved as zero, not as unknown.
	total, ok := featured.Playlists.Total()
	require.True(t, ok)
	require.Equal(t, 0, total)
}

func TestPlaylistTrackValidatePaths(t *testing.T) {
	err := PlaylistTrack{}.Validate()
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "track", gerror.PathOf(err).String())

	err = PlaylistTrack{Track: &Track{Name: "No ID"}}.Validate()
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "track.id", gerror.PathOf(err).String())
}

func TestPlaylistTracksPageElementError(t *testing.T) {
	data := []byte(`{"href":"https://x","items":[{"added_at":"2024-05-01T10:00:00Z"}],"limit":10}`)
	_, err := DecodePage[PlaylistTrack](data)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "items[0].track", gerror.PathOf(err).String())
}

func TestPlaylistDecodeQualifiesTrackPageErrors(t *testing.T) {
	data := []byte(`{
		"id": "pl1",
		"name": "Road Trip",
		"tracks": {
			"href": "https://x",
			"items": [{"added_at": "2024-05-01T10:00:00Z"}],
			"limit": 10
		}
	}`)
	var playlist Playlist
	err := json.Unmarshal(data, &playlist)
	require.Error(t, err)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "tracks.items[0].track", gerror.PathOf(err).String())

	// An incomplete embedded page is attributed the same way.
	data = []byte(`{"id": "pl1", "name": "Road Trip", "tracks": {"href": "https://x", "items": []}}`)
	err = json.Unmarshal(data, &playlist)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "tracks.limit", gerror.PathOf(err).String())
}

func TestFeaturedPlaylistsDecodeQualifiesPageErrors(t *testing.T) {
	data := []byte(`{"message":"hi","playlists":{"items":[],"limit":20}}`)
	var featured FeaturedPlaylists
	err := json.Unmarshal(data, &featured)
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "playlists.href", gerror.PathOf(err).String())
}

func TestSimplifiedPlaylistValidate(t *testing.T) {
	playlist := SimplifiedPlaylist{
		ID:     "pl1",
		Name:   "Focus",
		Tracks: &TrackRef{URL: "https://api.melodio.dev/v1/playlists/pl1/tracks", Total: 12},
	}
	require.NoError(t, playlist.Validate())

	err := SimplifiedPlaylist{Name: "Focus"}.Validate()
	require.True(t, gerror.IsMissingRequiredField(err))
	require.Equal(t, "id", gerror.PathOf(err).String())

	err = SimplifiedPlaylist{ID: "pl1"}.Validate()
	require.Equal(t, "name", gerror.PathOf(err).String())

	err = SimplifiedPlaylist{ID: "pl1", Name: "Focus", Owner: &User{}}.Validate()
	require.Equal(t, "owner.id", gerror.PathOf(err).String())
}
