package client

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"

	"github.com/melodio/melodio-go/common/models"
)

// listQuery carries the pagination parameters accepted by the API's listing
// endpoints.
type listQuery struct {
	Limit  int    `url:"limit,omitempty"`
	Offset *int   `url:"offset,omitempty"`
	After  string `url:"after,omitempty"`
}

// paginationValues converts pagination options into query string values.
// A cursor takes precedence over an offset when both are set.
func paginationValues(pagination models.Pagination) (url.Values, error) {
	q := listQuery{Limit: pagination.Limit}
	if pagination.Cursor != "" {
		q.After = pagination.Cursor
	} else {
		q.Offset = pagination.Offset
	}
	values, err := query.Values(q)
	if err != nil {
		return nil, errors.Wrap(err, "error encoding pagination parameters")
	}
	return values, nil
}

// withQuery appends query values to a path or URL, preserving any query
// string already present.
func withQuery(pathOrURL string, values url.Values) string {
	encoded := values.Encode()
	if encoded == "" {
		return pathOrURL
	}
	separator := "?"
	if strings.Contains(pathOrURL, "?") {
		separator = "&"
	}
	return fmt.Sprintf("%s%s%s", pathOrURL, separator, encoded)
}
