package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/melodio/melodio-go/common/models"
)

// GetFeaturedPlaylists returns the curated featured listing: a display
// message and a page of playlists. The paging object always arrives wrapped
// under the playlists key on this endpoint, so the response decodes into a
// dedicated document instead of relying on the wrapped-shape fallback.
func (a *APIClient) GetFeaturedPlaylists(ctx context.Context, pagination models.Pagination) (*models.FeaturedPlaylists, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return nil, err
	}
	url := withQuery("/v1/browse/featured-playlists", values)
	statusCode, _, body, err := a.get(ctx, nil, url)
	if err != nil {
		return nil, fmt.Errorf("error getting featured playlists: %w", err)
	}
	if !a.isOneOf(statusCode, []int{http.StatusOK}) {
		return nil, a.makeHTTPError(statusCode, body)
	}
	featured := &models.FeaturedPlaylists{}
	err = json.Unmarshal(body, featured)
	if err != nil {
		return nil, makeDecodeError(err)
	}
	err = featured.Validate()
	if err != nil {
		return nil, makeDecodeError(err)
	}
	return featured, nil
}
