package clienttest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/melodio/melodio-go/client"
	"github.com/melodio/melodio-go/common/gerror"
	"github.com/melodio/melodio-go/common/models"
	"github.com/melodio/melodio-go/common/models/search"
)

// embeddedTracksPageLimit is the page size of the track listing embedded in
// a full playlist document.
const embeddedTracksPageLimit = 100

// Server is an in-process fake of the Melodio REST API backed by an in-memory
// catalog. Responses follow the production wire shapes, including the
// endpoints that wrap their paging object under a response-specific key.
type Server struct {
	*httptest.Server
	Catalog *Catalog

	// AccessToken is the bearer token the API routes accept. The token
	// endpoint issues this token to clients presenting ClientID and
	// ClientSecret.
	AccessToken  string
	ClientID     string
	ClientSecret string

	mu            sync.Mutex
	pending429s   int
	requestCount  int
	tokenRequests int
	stub          *stubResponse
	lastHeader    http.Header
}

// stubResponse is a canned response served in place of normal handling.
type stubResponse struct {
	statusCode int
	body       string
}

// NewServer starts a fake API server over the supplied catalog. The caller
// must Close the server when finished with it.
func NewServer(catalog *Catalog) *Server {
	s := &Server{
		Catalog:      catalog,
		AccessToken:  "test-access-token",
		ClientID:     "test-client",
		ClientSecret: "test-secret",
	}
	router := chi.NewRouter()
	router.Post("/oauth/token", s.handleToken)
	router.Route("/v1", func(r chi.Router) {
		r.Use(s.countRequests)
		r.Use(s.requireAuth)
		r.Get("/me", s.handleMe)
		r.Get("/me/playlists", s.handleMyPlaylists)
		r.Get("/me/tracks", s.handleSavedTracks)
		r.Get("/me/following", s.handleFollowing)
		r.Get("/users/{userID}", s.handleUser)
		r.Get("/users/{userID}/playlists", s.handleUserPlaylists)
		r.Get("/playlists/{playlistID}", s.handlePlaylist)
		r.Get("/playlists/{playlistID}/tracks", s.handlePlaylistTracks)
		r.Get("/browse/featured-playlists", s.handleFeatured)
		r.Get("/search", s.handleSearch)
	})
	s.Server = httptest.NewServer(router)
	return s
}

// TokenURL returns the OAuth2 token endpoint for this server.
func (s *Server) TokenURL() string {
	return s.URL + "/oauth/token"
}

// FailNextRequestsWith429 makes the next n API requests fail with a 429
// response carrying a zero Retry-After header, then resumes normal handling.
// Token endpoint requests are not affected.
func (s *Server) FailNextRequestsWith429(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending429s = n
}

// RequestCount returns the number of API requests received, including any
// rejected with 429 or 401.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

// TokenRequestCount returns the number of requests the token endpoint has
// received.
func (s *Server) TokenRequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests
}

// StubNextResponse makes the next API request return the supplied status and
// raw body in place of normal handling. Used to exercise client-side
// treatment of malformed or unexpected responses.
func (s *Server) StubNextResponse(statusCode int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stub = &stubResponse{statusCode: statusCode, body: body}
}

// LastRequestHeader returns the headers of the most recent API request.
func (s *Server) LastRequestHeader() http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastHeader
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestCount++
		s.lastHeader = r.Header.Clone()
		fail := s.pending429s > 0
		if fail {
			s.pending429s--
		}
		var stub *stubResponse
		if !fail {
			stub = s.stub
			s.stub = nil
		}
		s.mu.Unlock()
		if fail {
			w.Header().Set("Retry-After", "0")
			s.writeError(w, r, gerror.NewErrRateLimited("Rate limit exceeded"))
			return
		}
		if stub != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(stub.statusCode)
			_, _ = w.Write([]byte(stub.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, prefix) || strings.TrimPrefix(auth, prefix) != s.AccessToken {
			s.writeError(w, r, gerror.NewErrUnauthorized("Invalid or missing access token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tokenRequests++
	s.mu.Unlock()
	clientID, clientSecret := r.FormValue("client_id"), r.FormValue("client_secret")
	if clientID == "" {
		clientID, clientSecret, _ = r.BasicAuth()
	}
	if clientID != s.ClientID || clientSecret != s.ClientSecret {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "invalid_client"})
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"access_token": s.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   3600,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, s.Catalog.Me)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "userID"))
	user, ok := s.Catalog.user(id)
	if !ok {
		s.writeError(w, r, gerror.NewErrNotFound("User not found"))
		return
	}
	s.writeJSON(w, r, user)
}

func (s *Server) handleMyPlaylists(w http.ResponseWriter, r *http.Request) {
	var items []interface{}
	for _, id := range s.Catalog.MyPlaylists {
		if entry := s.Catalog.playlist(id); entry != nil {
			items = append(items, s.simplified(entry))
		}
	}
	limit, offset := listParams(r)
	s.writeJSON(w, r, s.pageDocument("/v1/me/playlists", nil, items, limit, offset))
}

func (s *Server) handleUserPlaylists(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "userID"))
	if _, ok := s.Catalog.user(id); !ok {
		s.writeError(w, r, gerror.NewErrNotFound("User not found"))
		return
	}
	var items []interface{}
	for _, entry := range s.Catalog.playlistsOwnedBy(id) {
		items = append(items, s.simplified(entry))
	}
	limit, offset := listParams(r)
	s.writeJSON(w, r, s.pageDocument(fmt.Sprintf("/v1/users/%s/playlists", id), nil, items, limit, offset))
}

func (s *Server) handleSavedTracks(w http.ResponseWriter, r *http.Request) {
	limit, offset := listParams(r)
	s.writeJSON(w, r, s.pageDocument("/v1/me/tracks", nil, anySlice(s.Catalog.SavedTracks), limit, offset))
}

// handleFollowing serves the one production endpoint that pages by cursor.
// Its paging object arrives wrapped under the users key.
func (s *Server) handleFollowing(w http.ResponseWriter, r *http.Request) {
	limit, _ := listParams(r)
	after := r.URL.Query().Get("after")
	doc := s.cursorPageDocument("/v1/me/following", s.Catalog.Followed, limit, after)
	s.writeJSON(w, r, map[string]interface{}{"users": doc})
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "playlistID"))
	entry := s.Catalog.playlist(id)
	if entry == nil {
		s.writeError(w, r, gerror.NewErrNotFound("Playlist not found"))
		return
	}
	doc := structToMap(s.simplified(entry))
	if entry.Description != "" {
		doc["description"] = entry.Description
	}
	doc["followers"] = map[string]interface{}{"total": entry.Followers}
	doc["tracks"] = s.pageDocument(fmt.Sprintf("/v1/playlists/%s/tracks", id), nil, anySlice(entry.Tracks), embeddedTracksPageLimit, 0)
	s.writeJSON(w, r, doc)
}

func (s *Server) handlePlaylistTracks(w http.ResponseWriter, r *http.Request) {
	id := models.ID(chi.URLParam(r, "playlistID"))
	entry := s.Catalog.playlist(id)
	if entry == nil {
		s.writeError(w, r, gerror.NewErrNotFound("Playlist not found"))
		return
	}
	limit, offset := listParams(r)
	s.writeJSON(w, r, s.pageDocument(fmt.Sprintf("/v1/playlists/%s/tracks", id), nil, anySlice(entry.Tracks), limit, offset))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	var items []interface{}
	for _, id := range s.Catalog.FeaturedIDs {
		if entry := s.Catalog.playlist(id); entry != nil {
			items = append(items, s.simplified(entry))
		}
	}
	limit, offset := listParams(r)
	s.writeJSON(w, r, map[string]interface{}{
		"message":   s.Catalog.FeaturedMessage,
		"playlists": s.pageDocument("/v1/browse/featured-playlists", nil, items, limit, offset),
	})
}

// handleSearch serves naive substring search over the catalog. Results are
// wrapped under a key named for the requested entity type.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	rawQuery := r.URL.Query().Get("q")
	query := search.ParseQuery(rawQuery)
	if err := query.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	entityType := r.URL.Query().Get("type")
	extra := url.Values{"q": {rawQuery}, "type": {entityType}}
	limit, offset := listParams(r)
	switch entityType {
	case "playlist":
		var items []interface{}
		for _, entry := range s.Catalog.Playlists {
			if playlistMatches(query, entry.Playlist) {
				items = append(items, s.simplified(entry))
			}
		}
		s.writeJSON(w, r, map[string]interface{}{"playlists": s.pageDocument("/v1/search", extra, items, limit, offset)})
	case "track":
		var items []interface{}
		for _, track := range s.Catalog.Tracks {
			if trackMatches(query, track) {
				items = append(items, track)
			}
		}
		s.writeJSON(w, r, map[string]interface{}{"tracks": s.pageDocument("/v1/search", extra, items, limit, offset)})
	default:
		s.writeError(w, r, gerror.NewErrValidationFailed(fmt.Sprintf("error unsupported search type %q", entityType)))
	}
}

// simplified renders a playlist in its compact form with absolute URLs.
func (s *Server) simplified(entry *PlaylistEntry) models.SimplifiedPlaylist {
	playlist := entry.Playlist
	playlist.URL = fmt.Sprintf("%s/v1/playlists/%s", s.URL, playlist.ID)
	playlist.Tracks = &models.TrackRef{
		URL:   fmt.Sprintf("%s/v1/playlists/%s/tracks", s.URL, playlist.ID),
		Total: len(entry.Tracks),
	}
	return playlist
}

func (s *Server) pageURL(path string, extra url.Values, limit, offset int) string {
	values := url.Values{}
	for k, vs := range extra {
		values[k] = vs
	}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))
	return fmt.Sprintf("%s%s?%s", s.URL, path, values.Encode())
}

// pageDocument builds an offset-paged paging object over a window of items.
func (s *Server) pageDocument(path string, extra url.Values, items []interface{}, limit, offset int) map[string]interface{} {
	total := len(items)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	window := items[start:end]
	if window == nil {
		window = []interface{}{}
	}
	doc := map[string]interface{}{
		"href":     s.pageURL(path, extra, limit, offset),
		"items":    window,
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"next":     nil,
		"previous": nil,
	}
	if end < total {
		doc["next"] = s.pageURL(path, extra, limit, offset+limit)
	}
	if offset > 0 {
		previous := offset - limit
		if previous < 0 {
			previous = 0
		}
		doc["previous"] = s.pageURL(path, extra, limit, previous)
	}
	return doc
}

// cursorPageDocument builds a cursor-paged paging object. The after cursor
// names the last user of the page before the one being served.
func (s *Server) cursorPageDocument(path string, users []models.User, limit int, after string) map[string]interface{} {
	start := 0
	if after != "" {
		for i, user := range users {
			if string(user.ID) == after {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(users) {
		end = len(users)
	}
	window := users[start:end]

	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	if after != "" {
		values.Set("after", after)
	}
	doc := map[string]interface{}{
		"href":    fmt.Sprintf("%s%s?%s", s.URL, path, values.Encode()),
		"items":   anySlice(window),
		"limit":   limit,
		"total":   len(users),
		"next":    nil,
		"cursors": map[string]interface{}{},
	}
	if end < len(users) && len(window) > 0 {
		nextAfter := string(window[len(window)-1].ID)
		doc["cursors"] = map[string]interface{}{"after": nextAfter}
		nextValues := url.Values{}
		nextValues.Set("after", nextAfter)
		nextValues.Set("limit", strconv.Itoa(limit))
		doc["next"] = fmt.Sprintf("%s%s?%s", s.URL, path, nextValues.Encode())
	}
	return doc
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	render.JSON(w, r, v)
}

// writeError writes an error document in the standard envelope. Errors
// without an external audience are reported as internal errors, mirroring
// how the production API sanitizes errors for public display.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var gErr gerror.Error
	if !errors.As(err, &gErr) || gErr.Audience() != gerror.AudienceExternal {
		gErr = gerror.NewErrInternal()
	}
	doc := struct {
		Error client.ErrorDocument `json:"error"`
	}{
		Error: client.ErrorDocument{
			Status:  gErr.HTTPStatusCode(),
			Code:    gErr.Code(),
			Message: gErr.Message(),
		},
	}
	render.Status(r, gErr.HTTPStatusCode())
	render.JSON(w, r, doc)
}

// listParams extracts the pagination parameters from a request, applying the
// API's defaults for anything absent.
func listParams(r *http.Request) (limit, offset int) {
	limit = models.DefaultPaginationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func anySlice[T any](items []T) []interface{} {
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// structToMap converts a document struct to a generic map so handlers can
// graft response-specific keys onto it.
func structToMap(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	return m
}
