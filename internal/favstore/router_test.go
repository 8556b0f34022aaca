package favstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/favorites"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDirectory struct {
	paths   []string
	queries []url.Values
	body    string
	err     error
}

func (f *fakeDirectory) Forward(_ context.Context, path string, q url.Values) ([]byte, error) {
	f.paths = append(f.paths, path)
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *fakeDirectory) {
	t.Helper()
	dir := &fakeDirectory{body: `[{"stationuuid":"a","name":"Radio A"}]`}
	api := NewAPI(setupTestRepo(t), dir, zerolog.Nop())
	return NewRouter(api), dir
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestFavorites_UnknownUserIs404(t *testing.T) {
	r, _ := setupTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/favorites/user-1", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)

	code, _ = do(t, r, http.MethodDelete, "/api/favorites/user-1", `{"stationuuid":"a"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestFavorites_AddGetRemove(t *testing.T) {
	r, _ := setupTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/favorites/user-1", `{"stationuuid":"a"}`)
	require.Equal(t, http.StatusOK, code)
	var rec favorites.Record
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, favorites.Record{UserID: "user-1", StationIDs: []string{"a"}}, rec)

	code, env = do(t, r, http.MethodGet, "/api/favorites/user-1", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, []string{"a"}, rec.StationIDs)

	code, env = do(t, r, http.MethodDelete, "/api/favorites/user-1", `{"stationuuid":"a"}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Empty(t, rec.StationIDs)
}

func TestFavorites_MissingStationIs400(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, body := range []string{"", "{}", `{"stationuuid":""}`, "not json"} {
		code, env := do(t, r, http.MethodPost, "/api/favorites/user-1", body)
		assert.Equal(t, http.StatusBadRequest, code, "body %q", body)
		assert.Equal(t, "stationuuid is required", env.Error)
	}

	code, _ := do(t, r, http.MethodGet, "/api/favorites/user-1", "")
	assert.Equal(t, http.StatusNotFound, code, "rejected requests create nothing")
}

func TestFavorites_WorksWithHTTPStore(t *testing.T) {
	r, _ := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	store := favorites.NewHTTPStore(srv.URL)
	ctx := context.Background()

	_, err := store.Get(ctx, "user-1")
	require.ErrorIs(t, err, favorites.ErrNotFound)

	rec, err := store.Add(ctx, "user-1", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rec.StationIDs)

	rec, err = store.Remove(ctx, "user-1", "a")
	require.NoError(t, err)
	assert.Empty(t, rec.StationIDs)
}

func TestProxy_StationsDefaultQuery(t *testing.T) {
	r, dir := setupTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/radio/stations", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, dir.body, string(env.Data))

	require.Len(t, dir.paths, 1)
	assert.Equal(t, "/stations/search", dir.paths[0])
	assert.Equal(t, catalog.DefaultSearch(), dir.queries[0])
}

func TestProxy_StationsForwardsQuery(t *testing.T) {
	r, dir := setupTestRouter(t)

	code, _ := do(t, r, http.MethodGet, "/api/radio/stations?tag=jazz&limit=5", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "jazz", dir.queries[0].Get("tag"))
	assert.Equal(t, "5", dir.queries[0].Get("limit"))
	assert.Empty(t, dir.queries[0].Get("order"))
}

func TestProxy_ByUUIDTagsCountries(t *testing.T) {
	r, dir := setupTestRouter(t)

	for _, target := range []string{
		"/api/radio/stations/byuuid/a,b",
		"/api/radio/tags",
		"/api/radio/countries?order=name",
	} {
		code, _ := do(t, r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusOK, code, target)
	}
	assert.Equal(t, []string{"/stations/byuuid/a,b", "/tags", "/countries"}, dir.paths)
	assert.Equal(t, "name", dir.queries[2].Get("order"))
}

func TestProxy_UpstreamError(t *testing.T) {
	r, dir := setupTestRouter(t)
	dir.err = &catalog.StatusError{StatusCode: 503, Status: "503 Service Unavailable"}

	code, env := do(t, r, http.MethodGet, "/api/radio/tags", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, env.Error, "503")

	dir.err = errors.New("dial tcp: refused")
	code, env = do(t, r, http.MethodGet, "/api/radio/countries", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "failed to reach station directory", env.Error)
}

func TestProxy_OversizedUpstream(t *testing.T) {
	r, dir := setupTestRouter(t)
	dir.err = fmt.Errorf("/stations/search: %w", catalog.ErrResponseTooLarge)

	code, env := do(t, r, http.MethodGet, "/api/radio/stations", "")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "directory response too large", env.Error)
}

func TestProxy_DisabledWithoutDirectory(t *testing.T) {
	r := NewRouter(NewAPI(setupTestRepo(t), nil, zerolog.Nop()))

	req := httptest.NewRequest(http.MethodGet, "/api/radio/tags", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
