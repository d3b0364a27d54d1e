package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/melodio/melodio-go/common/models"
)

// GetMe returns the profile of the current user.
func (a *APIClient) GetMe(ctx context.Context) (*models.User, error) {
	statusCode, _, body, err := a.get(ctx, nil, "/v1/me")
	if err != nil {
		return nil, fmt.Errorf("error getting current user: %w", err)
	}
	if !a.isOneOf(statusCode, []int{http.StatusOK}) {
		return nil, a.makeHTTPError(statusCode, body)
	}
	user := &models.User{}
	err = json.Unmarshal(body, user)
	if err != nil {
		return nil, makeDecodeError(err)
	}
	err = user.Validate()
	if err != nil {
		return nil, makeDecodeError(err)
	}
	return user, nil
}

// GetUser returns the public profile of a user.
func (a *APIClient) GetUser(ctx context.Context, userID models.ID) (*models.User, error) {
	statusCode, _, body, err := a.get(ctx, nil, fmt.Sprintf("/v1/users/%s", userID))
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if !a.isOneOf(statusCode, []int{http.StatusOK}) {
		return nil, a.makeHTTPError(statusCode, body)
	}
	user := &models.User{}
	err = json.Unmarshal(body, user)
	if err != nil {
		return nil, makeDecodeError(err)
	}
	err = user.Validate()
	if err != nil {
		return nil, makeDecodeError(err)
	}
	return user, nil
}

// GetFollowedUsers returns one page of the users the current user follows.
// This endpoint pages by cursor and wraps its paging object under a
// response-specific key, which the page decoder unwraps.
func (a *APIClient) GetFollowedUsers(ctx context.Context, pagination models.Pagination) (*models.Page[models.User], error) {
	url, err := followedUsersURL(pagination)
	if err != nil {
		return nil, err
	}
	return getPage[models.User](ctx, a, url)
}

// NewFollowedUsersPaginator returns a paginator over the users the current
// user follows.
func (a *APIClient) NewFollowedUsersPaginator(pagination models.Pagination) (*Paginator[models.User], error) {
	url, err := followedUsersURL(pagination)
	if err != nil {
		return nil, err
	}
	return newPaginator[models.User](a, url), nil
}

func followedUsersURL(pagination models.Pagination) (string, error) {
	values, err := paginationValues(pagination)
	if err != nil {
		return "", err
	}
	return withQuery("/v1/me/following", values), nil
}
