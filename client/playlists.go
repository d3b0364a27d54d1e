package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/melodio/melodio-go/common/models"
)

// GetPlaylist returns a playlist in its full representation, including the
// first page of its track listing embedded in the document.
func (a *APIClient) GetPlaylist(ctx context.Context, playlistID models.ID) (*models.Playlist, error) {
	statusCode, _, body, err := a.get(ctx, nil, fmt.Sprintf("/v1/playlists/%s", playlistID))
	if err != nil {
		return nil, fmt.Errorf("error getting playlist: %w", err)
	}
	if !a.isOneOf(statusCode, []int{http.StatusOK}) {
		return nil, a.makeHTTPError(statusCode, body)
	}
	playlist := &models.Playlist{}
	err = json.Unmarshal(body, playlist)
	if err != nil {
		return nil, makeDecodeError(err)
	}
	err = playlist.Validate()
	if err != nil {
		return nil, makeDecodeError(err)
	}
	return playlist, nil
}

// GetPlaylistTracks returns one page of a playlist's track listing.
func (a *APIClient) GetPlaylistTracks(ctx context.Context, playlistID models.ID, pagination models.Pagination) (*models.Page[models.PlaylistTrack], error) {
	url, err := playlistTracksURL(playlistID, pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.PlaylistTrack](ctx, a, url)
}

// NewPlaylistTracksPaginator returns a paginator over a playlist's full track
// listing, starting from the supplied pagination position.
func (a *APIClient) NewPlaylistTracksPaginator(playlistID models.ID, pagination models.Pagination) (*Paginator[models.PlaylistTrack], error) {
	url, err := playlistTracksURL(playlistID, pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.PlaylistTrack](a, url), nil
}

// GetUserPlaylists returns one page of the playlists owned or followed by a
// user. Playlists arrive in their compact representation.
func (a *APIClient) GetUserPlaylists(ctx context.Context, userID models.ID, pagination models.Pagination) (*models.Page[models.SimplifiedPlaylist], error) {
	url, err := userPlaylistsURL(userID, pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.SimplifiedPlaylist](ctx, a, url)
}

// NewUserPlaylistsPaginator returns a paginator over a user's playlists.
func (a *APIClient) NewUserPlaylistsPaginator(userID models.ID, pagination models.Pagination) (*Paginator[models.SimplifiedPlaylist], error) {
	url, err := userPlaylistsURL(userID, pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.SimplifiedPlaylist](a, url), nil
}

// GetMyPlaylists returns one page of the current user's playlists.
func (a *APIClient) GetMyPlaylists(ctx context.Context, pagination models.Pagination) (*models.Page[models.SimplifiedPlaylist], error) {
	url, err := myPlaylistsURL(pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.SimplifiedPlaylist](ctx, a, url)
}

// NewMyPlaylistsPaginator returns a paginator over the current user's playlists.
func (a *APIClient) NewMyPlaylistsPaginator(pagination models.Pagination) (*Paginator[models.SimplifiedPlaylist], error) {
	url, err := myPlaylistsURL(pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.SimplifiedPlaylist](a, url), nil
}

func playlistTracksURL(playlistID models.ID, pagination models.Pagination) (string, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	return withQuery(fmt.Sprintf("/v1/playlists/%s/tracks", playlistID), values), nil
}

func userPlaylistsURL(userID models.ID, pagination models.Pagination) (string, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	return withQuery(fmt.Sprintf("/v1/users/%s/playlists", userID), values), nil
}

func myPlaylistsURL(pagination models.Pagination) (string, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	return withQuery("/v1/me/playlists", values), nil
}
