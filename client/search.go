package client

import (
	"context"

	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/models/search"
)

// Entity types accepted by the search endpoint.
const (
	searchTypePlaylist = "playlist"
	searchTypeTrack    = "track"
)

// SearchPlaylists returns one page of playlists matching the query. Search
// responses wrap their paging object under a key named for the entity type,
// which the page decoder unwraps.
func (a *APIClient) SearchPlaylists(ctx context.Context, query search.Query, pagination models.Pagination) (*models.Page[models.SimplifiedPlaylist], error) {
	url, err := searchURL(query, searchTypePlaylist, pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.SimplifiedPlaylist](ctx, a, url)
}

// NewPlaylistSearchPaginator returns a paginator over all playlists matching
// the query.
func (a *APIClient) NewPlaylistSearchPaginator(query search.Query, pagination models.Pagination) (*Paginator[models.SimplifiedPlaylist], error) {
	url, err := searchURL(query, searchTypePlaylist, pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.SimplifiedPlaylist](a, url), nil
}

// SearchTracks returns one page of tracks matching the query.
func (a *APIClient) SearchTracks(ctx context.Context, query search.Query, pagination models.Pagination) (*models.Page[models.Track], error) {
	url, err := searchURL(query, searchTypeTrack, pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.Track](ctx, a, url)
}

// NewTrackSearchPaginator returns a paginator over all tracks matching the
// query.
func (a *APIClient) NewTrackSearchPaginator(query search.Query, pagination models.Pagination) (*Paginator[models.Track], error) {
	url, err := searchURL(query, searchTypeTrack, pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.Track](a, url), nil
}

// searchURL builds the search request URL for a validated query.
func searchURL(query search.Query, entityType string, pagination models.Pagination) (string, error) {
	err := query.Validate()
	if err != nil {
		return "", err
	}
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	values.Set("q", query.String())
	values.Set("type", entityType)
	return withQuery("/v1/search", values), nil
}
