package client_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/melodio/melodio-go/client"
	"github.com/melodio/melodio-go/client/clienttest"
	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/logger"
	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/models/search"
)

func newTestCatalog() *clienttest.Catalog {
	melodio := models.User{ID: "u1", DisplayName: "Melodio"}
	sam := models.User{ID: "u2", DisplayName: "Sam"}
	motors := models.User{ID: "a1", DisplayName: "Motors"}
	bjork := models.User{ID: "a2", DisplayName: "Björk"}

	t1 := models.Track{ID: "t1", Name: "Opening", Artists: []models.User{motors}, DurationMS: 201000, TrackNumber: 1}
	t2 := models.Track{ID: "t2", Name: "Night Drive", Artists: []models.User{motors}, DurationMS: 245000, TrackNumber: 2}
	t3 := models.Track{ID: "t3", Name: "Jóga", Artists: []models.User{bjork}, DurationMS: 305000, Explicit: true}
	t4 := models.Track{ID: "t4", Name: "Deep Work", Artists: []models.User{motors}, DurationMS: 612000}
	t5 := models.Track{ID: "t5", Name: "Sunrise", Artists: []models.User{bjork}, DurationMS: 187000}

	addedAt := func(value string) *models.Time {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			panic(err)
		}
		return models.NewTimePtr(parsed)
	}
	trackPtr := func(track models.Track) *models.Track { return &track }

	return &clienttest.Catalog{
		Me:    melodio,
		Users: []models.User{melodio, sam},
		Playlists: []*clienttest.PlaylistEntry{
			{
				Playlist:    models.SimplifiedPlaylist{ID: "pl1", Name: "Road Trip", Owner: &melodio},
				Description: "Songs for long highways",
				Followers:   42,
				Tracks: []models.PlaylistTrack{
					{AddedAt: addedAt("2024-05-01T10:00:00Z"), AddedBy: &melodio, Track: trackPtr(t1)},
					{AddedAt: addedAt("2024-05-02T11:30:00Z"), AddedBy: &melodio, Track: trackPtr(t2)},
					{AddedAt: addedAt("2024-05-03T09:15:00Z"), AddedBy: &sam, Track: trackPtr(t3)},
				},
			},
			{
				Playlist: models.SimplifiedPlaylist{ID: "pl2", Name: "Focus Flow", Owner: &melodio},
				Tracks: []models.PlaylistTrack{
					{AddedAt: addedAt("2024-04-10T08:00:00Z"), Track: trackPtr(t4)},
				},
			},
			{
				Playlist: models.SimplifiedPlaylist{ID: "pl3", Name: "Morning Energy", Owner: &sam},
				Tracks: []models.PlaylistTrack{
					{AddedAt: addedAt("2024-03-01T07:45:00Z"), Track: trackPtr(t5)},
				},
			},
		},
		MyPlaylists: []models.ID{"pl1", "pl2", "pl3"},
		SavedTracks: []models.SavedTrack{
			{AddedAt: addedAt("2024-06-01T12:00:00Z"), Track: trackPtr(t2)},
			{AddedAt: addedAt("2024-05-20T18:30:00Z"), Track: trackPtr(t4)},
		},
		Followed: []models.User{
			{ID: "f1", DisplayName: "Alex"},
			{ID: "f2", DisplayName: "Billie"},
			{ID: "f3", DisplayName: "Chris"},
			{ID: "f4", DisplayName: "Dana"},
			{ID: "f5", DisplayName: "Eli"},
		},
		Tracks:          []models.Track{t1, t2, t3, t4, t5},
		FeaturedMessage: "Fresh picks for your commute",
		FeaturedIDs:     []models.ID{"pl2", "pl3"},
	}
}

func newTestClient(t *testing.T, server *clienttest.Server) *client.APIClient {
	t.Helper()
	authenticator := client.NewStaticTokenAuthenticator(client.AccessToken(server.AccessToken), logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClient([]string{server.URL}, authenticator, logger.NoOpLogFactory)
	require.NoError(t, err)
	return apiClient
}

func TestGetMe(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	me, err := apiClient.GetMe(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.ID("u1"), me.ID)
	require.Equal(t, "Melodio", me.DisplayName)
}

func TestStandardRequestHeaders(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	_, err := apiClient.GetMe(context.Background())
	require.NoError(t, err)
	header := server.LastRequestHeader()
	require.Equal(t, "application/json", header.Get("Accept"))
	require.Contains(t, header.Get("User-Agent"), "melodio-go/")
	require.NotEmpty(t, header.Get("X-Request-Id"))
}

func TestGetPlaylist(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	playlist, err := apiClient.GetPlaylist(context.Background(), "pl1")
	require.NoError(t, err)
	require.Equal(t, models.ID("pl1"), playlist.ID)
	require.Equal(t, "Road Trip", playlist.Name)
	require.NotNil(t, playlist.Description)
	require.Equal(t, "Songs for long highways", *playlist.Description)
	require.NotNil(t, playlist.Followers)
	require.NotNil(t, playlist.Followers.Total)
	require.Equal(t, 42, *playlist.Followers.Total)

	// The first page of the track listing is embedded in the document.
	require.Equal(t, 3, playlist.Tracks.Len())
	require.False(t, playlist.Tracks.HasNext())
	total, ok := playlist.Tracks.Total()
	require.True(t, ok)
	require.Equal(t, 3, total)
	entry, err := playlist.Tracks.At(1)
	require.NoError(t, err)
	require.Equal(t, models.ID("t2"), entry.Track.ID)
	require.Equal(t, "2024-05-02T11:30:00Z", entry.AddedAt.Format(time.RFC3339))
}

func TestGetPlaylistNotFound(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	_, err := apiClient.GetPlaylist(context.Background(), "nope")
	require.Error(t, err)
	require.True(t, gerror.IsNotFound(err))
	require.True(t, gerror.HasHTTPStatusCode(err, http.StatusNotFound))
}

func TestGetPlaylistTracksPaging(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	page, err := apiClient.GetPlaylistTracks(ctx, "pl1", models.NewPagination(2))
	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	require.True(t, page.HasNext())
	require.False(t, page.HasPrevious())

	next, err := client.NextPage(ctx, apiClient, page)
	require.NoError(t, err)
	require.Equal(t, 1, next.Len())
	require.False(t, next.HasNext())
	require.True(t, next.HasPrevious())
	entry, err := next.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("t3"), entry.Track.ID)

	// Walking back from the second page lands on the first.
	previous, err := client.PreviousPage(ctx, apiClient, next)
	require.NoError(t, err)
	require.Equal(t, 2, previous.Len())
	first, err := previous.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("t1"), first.Track.ID)

	_, err = client.PreviousPage(ctx, apiClient, previous)
	require.True(t, gerror.IsNotFound(err))
}

func TestPaginatorWalksAllPages(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	paginator, err := apiClient.NewPlaylistTracksPaginator("pl1", models.NewPagination(2))
	require.NoError(t, err)
	var names []string
	for paginator.HasNext() {
		page, err := paginator.Next(ctx)
		require.NoError(t, err)
		page.Each(func(i int, entry models.PlaylistTrack) bool {
			names = append(names, entry.Track.Name)
			return true
		})
	}
	require.Equal(t, []string{"Opening", "Night Drive", "Jóga"}, names)

	// The exhausted paginator reports NotFound rather than looping.
	_, err = paginator.Next(ctx)
	require.True(t, gerror.IsNotFound(err))
}

func TestGetMyPlaylists(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	page, err := apiClient.GetMyPlaylists(context.Background(), models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 3, page.Len())
	items := page.Items()
	require.Equal(t, models.ID("pl1"), items[0].ID)
	require.NotNil(t, items[0].Tracks)
	require.Equal(t, 3, items[0].Tracks.Total)
}

func TestGetUserPlaylists(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	page, err := apiClient.GetUserPlaylists(ctx, "u2", models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 1, page.Len())
	playlist, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("pl3"), playlist.ID)

	_, err = apiClient.GetUserPlaylists(ctx, "ghost", models.NewPagination(10))
	require.True(t, gerror.IsNotFound(err))
}

func TestGetSavedTracks(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	page, err := apiClient.GetSavedTracks(context.Background(), models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	saved, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("t2"), saved.Track.ID)
	require.Equal(t, "2024-06-01T12:00:00Z", saved.AddedAt.Format(time.RFC3339))
}

func TestGetFollowedUsersCursorPaging(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	// The following endpoint wraps its paging object under the users key
	// and pages by cursor.
	page, err := apiClient.GetFollowedUsers(ctx, models.NewPagination(2))
	require.NoError(t, err)
	require.Equal(t, 2, page.Len())
	cursors, ok := page.Cursors()
	require.True(t, ok)
	require.NotNil(t, cursors.After)
	require.Equal(t, "f2", *cursors.After)
	_, ok = page.Offset()
	require.False(t, ok)

	// Resume from the cursor.
	page, err = apiClient.GetFollowedUsers(ctx, models.NewPaginationWithCursor(2, *cursors.After))
	require.NoError(t, err)
	users := page.Items()
	require.Equal(t, models.ID("f3"), users[0].ID)
	require.Equal(t, models.ID("f4"), users[1].ID)

	// Or walk the whole collection with a paginator.
	paginator, err := apiClient.NewFollowedUsersPaginator(models.NewPagination(2))
	require.NoError(t, err)
	var ids []models.ID
	for paginator.HasNext() {
		page, err := paginator.Next(ctx)
		require.NoError(t, err)
		for _, user := range page.Items() {
			ids = append(ids, user.ID)
		}
	}
	require.Equal(t, []models.ID{"f1", "f2", "f3", "f4", "f5"}, ids)
}

func TestGetFeaturedPlaylists(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	featured, err := apiClient.GetFeaturedPlaylists(context.Background(), models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, "Fresh picks for your commute", featured.Message)
	require.Equal(t, 2, featured.Playlists.Len())
	first, err := featured.Playlists.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("pl2"), first.ID)
}

func TestSearchTracks(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	query := search.NewTrackQueryBuilder().WhereArtist(search.Equal, "Motors").Compile()
	page, err := apiClient.SearchTracks(ctx, query, models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 3, page.Len())

	query = search.ParseQuery("night")
	page, err = apiClient.SearchTracks(ctx, query, models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 1, page.Len())
	track, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("t2"), track.ID)

	// An empty query is rejected before any request is made.
	_, err = apiClient.SearchTracks(ctx, search.NewQuery(), models.NewPagination(10))
	require.True(t, gerror.IsValidationFailed(err))
}

func TestSearchPlaylists(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	page, err := apiClient.SearchPlaylists(ctx, search.ParseQuery("focus"), models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 1, page.Len())
	playlist, err := page.At(0)
	require.NoError(t, err)
	require.Equal(t, models.ID("pl2"), playlist.ID)

	// Search pages carry the query in their next URLs, so a paginator can
	// walk matches across pages.
	paginator, err := apiClient.NewPlaylistSearchPaginator(search.ParseQuery("o"), models.NewPagination(2))
	require.NoError(t, err)
	var ids []models.ID
	for paginator.HasNext() {
		page, err := paginator.Next(ctx)
		require.NoError(t, err)
		for _, playlist := range page.Items() {
			ids = append(ids, playlist.ID)
		}
	}
	require.Equal(t, []models.ID{"pl1", "pl2", "pl3"}, ids)
}

func TestUnauthorized(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()

	authenticator := client.NewStaticTokenAuthenticator("wrong-token", logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClient([]string{server.URL}, authenticator, logger.NoOpLogFactory)
	require.NoError(t, err)

	_, err = apiClient.GetMe(context.Background())
	require.True(t, gerror.IsUnauthorized(err))
	require.True(t, gerror.HasHTTPStatusCode(err, http.StatusUnauthorized))
}

func TestRateLimitResponsesAreRetried(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)

	server.FailNextRequestsWith429(2)
	me, err := apiClient.GetMe(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.ID("u1"), me.ID)
	require.Equal(t, 3, server.RequestCount())
}

func TestMalformedResponses(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()
	apiClient := newTestClient(t, server)
	ctx := context.Background()

	// A body that is neither a bare paging object nor a single-key wrapper.
	server.StubNextResponse(http.StatusOK, `{"items": [], "limit": 20}`)
	_, err := apiClient.GetSavedTracks(ctx, models.NewPagination(20))
	require.True(t, gerror.IsMalformedResponse(err))

	// An empty object where a wrapped paging object was expected.
	server.StubNextResponse(http.StatusOK, `{}`)
	_, err = apiClient.GetSavedTracks(ctx, models.NewPagination(20))
	require.True(t, gerror.IsEmptyWrappedObject(err))
	require.Equal(t, "href", gerror.PathOf(err).String())

	// A body that is not JSON at all.
	server.StubNextResponse(http.StatusOK, `not json`)
	_, err = apiClient.GetMe(ctx)
	require.True(t, gerror.IsMalformedResponse(err))

	// An error status whose body carries no error document.
	server.StubNextResponse(http.StatusBadRequest, `boom`)
	_, err = apiClient.GetMe(ctx)
	require.True(t, gerror.IsHttpOperationFailed(err))
	require.True(t, gerror.HasHTTPStatusCode(err, http.StatusBadRequest))
}

func TestClientCredentialsAuthentication(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()

	authenticator := client.NewClientCredentialsAuthenticator(
		server.ClientID, server.ClientSecret, server.TokenURL(), logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClient([]string{server.URL}, authenticator, logger.NoOpLogFactory)
	require.NoError(t, err)
	ctx := context.Background()

	me, err := apiClient.GetMe(ctx)
	require.NoError(t, err)
	require.Equal(t, models.ID("u1"), me.ID)

	// The access token is cached across requests.
	_, err = apiClient.GetSavedTracks(ctx, models.NewPagination(10))
	require.NoError(t, err)
	require.Equal(t, 1, server.TokenRequestCount())
}

func TestClientCredentialsTokenRefresh(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()

	// Anchor the mock to the wall clock; the oauth2 library stamps token
	// expiry with real time.
	mock := clock.NewMock()
	mock.Set(time.Now())
	authenticator := client.NewClientCredentialsAuthenticatorWithClock(
		server.ClientID, server.ClientSecret, server.TokenURL(), mock, logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClient([]string{server.URL}, authenticator, logger.NoOpLogFactory)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = apiClient.GetMe(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, server.TokenRequestCount())

	// Once the token lifetime has passed, the next request fetches a new one.
	mock.Add(2 * time.Hour)
	_, err = apiClient.GetMe(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, server.TokenRequestCount())
}

func TestClientCredentialsRejected(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()

	authenticator := client.NewClientCredentialsAuthenticator(
		server.ClientID, "bad-secret", server.TokenURL(), logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClient([]string{server.URL}, authenticator, logger.NoOpLogFactory)
	require.NoError(t, err)

	_, err = apiClient.GetMe(context.Background())
	require.True(t, gerror.IsUnauthorized(err))
}

func TestSetMinRequestInterval(t *testing.T) {
	server := clienttest.NewServer(newTestCatalog())
	defer server.Close()

	mock := clock.NewMock()
	authenticator := client.NewStaticTokenAuthenticator(client.AccessToken(server.AccessToken), logger.NoOpLogFactory)
	apiClient, err := client.NewAPIClientWithClock([]string{server.URL}, authenticator, mock, logger.NoOpLogFactory)
	require.NoError(t, err)
	apiClient.SetMinRequestInterval(time.Second)
	ctx := context.Background()

	// The first request goes out immediately.
	_, err = apiClient.GetMe(ctx)
	require.NoError(t, err)

	// The second parks until the interval has elapsed.
	done := make(chan error, 1)
	go func() {
		_, err := apiClient.GetMe(ctx)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("throttled request ran before the interval elapsed")
	default:
	}

	mock.Add(time.Second)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("throttled request never released")
	}
}
