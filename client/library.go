package client

import (
	"context"

	"github.com/melodio/melodio-go/common/models"
)

// GetSavedTracks returns one page of the tracks saved to the current user's
// library, most recently saved first.
func (a *APIClient) GetSavedTracks(ctx context.Context, pagination models.Pagination) (*models.Page[models.SavedTrack], error) {
	url, err := savedTracksURL(pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.SavedTrack](ctx, a, url)
}

// NewSavedTracksPaginator returns a paginator over the current user's saved
// tracks.
func (a *APIClient) NewSavedTracksPaginator(pagination models.Pagination) (*Paginator[models.SavedTrack], error) {
	url, err := savedTracksURL(pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.SavedTrack](a, url), nil
}

func savedTracksURL(pagination models.Pagination) (string, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	return withQuery("/v1/me/tracks", values), nil
}
