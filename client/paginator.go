package client

import (
	"context"
	"net/http"

	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/models"
)

// getPage fetches a single page of results from a path or a fully-qualified
// page URL and decodes it.
func getPage[E models.Decodable](ctx context.Context, a *APIClient, pathOrURL string) (*models.Page[E], error) {
	statusCode, _, body, err := a.get(ctx, nil, pathOrURL)
	if err != nil {
		return nil, err
	}
	if !a.isOneOf(statusCode, []int{http.StatusOK}) {
		return nil, a.makeHTTPError(statusCode, body)
	}
	page, err := models.DecodePage[E](body)
	if err != nil {
		return nil, makeDecodeError(err)
	}
	return page, nil
}

// NextPage fetches the page after the supplied page by following its next
// page URL verbatim. Returns a NotFound error if there is no next page.
func NextPage[E models.Decodable](ctx context.Context, a *APIClient, page *models.Page[E]) (*models.Page[E], error) {
	nextURL, ok := page.NextURL()
	if !ok {
		return nil, gerror.NewErrNotFound("error no next page")
	}
	return getPage[E](ctx, a, nextURL)
}

// PreviousPage fetches the page before the supplied page by following its
// previous page URL verbatim. Returns a NotFound error if there is no
// previous page.
func PreviousPage[E models.Decodable](ctx context.Context, a *APIClient, page *models.Page[E]) (*models.Page[E], error) {
	previousURL, ok := page.PreviousURL()
	if !ok {
		return nil, gerror.NewErrNotFound("error no previous page")
	}
	return getPage[E](ctx, a, previousURL)
}

// Paginator walks a paged collection from its first page onwards. Server-
// provided next page URLs are followed verbatim, so the walk works the same
// for offset-paged and cursor-paged collections.
type Paginator[E models.Decodable] struct {
	apiClient *APIClient
	firstURL  string
	nextURL   string
	started   bool
}

func newPaginator[E models.Decodable](a *APIClient, firstURL string) *Paginator[E] {
	return &Paginator[E]{apiClient: a, firstURL: firstURL}
}

// HasNext returns true if another page is available. Before the first call to
// Next it is always true; the first page has not been fetched yet.
func (p *Paginator[E]) HasNext() bool {
	return !p.started || p.nextURL != ""
}

// Next fetches the next available page. Returns a NotFound error when the
// collection is exhausted.
func (p *Paginator[E]) Next(ctx context.Context) (*models.Page[E], error) {
	var requestURL string
	switch {
	case !p.started:
		requestURL = p.firstURL
	case p.nextURL != "":
		requestURL = p.nextURL
	default:
		return nil, gerror.NewErrNotFound("error no next page")
	}
	page, err := getPage[E](ctx, p.apiClient, requestURL)
	if err != nil {
		return nil, err
	}
	p.started = true
	p.nextURL = ""
	if nextURL, ok := page.NextURL(); ok {
		p.nextURL = nextURL
	}
	return page, nil
}
