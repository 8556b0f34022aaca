package favorites

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(w http.ResponseWriter, status int, data any, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": msg == ""}
	if data != nil {
		body["data"] = data
	}
	if msg != "" {
		body["error"] = msg
	}
	_ = json.NewEncoder(w).Encode(body)
}

func TestHTTPStore_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/favorites/user-1", r.URL.Path)
		writeEnvelope(w, http.StatusOK, Record{UserID: "user-1", StationIDs: []string{"a", "b"}}, "")
	}))
	defer srv.Close()

	rec, err := NewHTTPStore(srv.URL+"/").Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, []string{"a", "b"}, rec.StationIDs)
}

func TestHTTPStore_Get_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, nil, "not found")
	}))
	defer srv.Close()

	_, err := NewHTTPStore(srv.URL).Get(context.Background(), "user-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_AddRemove(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body mutationBody
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			return
		}
		assert.Equal(t, "station-1", body.StationID)

		ids := []string{"station-1"}
		if r.Method == http.MethodDelete {
			ids = []string{}
		}
		writeEnvelope(w, http.StatusOK, Record{UserID: "user-1", StationIDs: ids}, "")
	}))
	defer srv.Close()

	store := NewHTTPStore(srv.URL)
	rec, err := store.Add(context.Background(), "user-1", "station-1")
	require.NoError(t, err)
	assert.True(t, rec.Contains("station-1"))

	rec, err = store.Remove(context.Background(), "user-1", "station-1")
	require.NoError(t, err)
	assert.False(t, rec.Contains("station-1"))

	assert.Equal(t, []string{http.MethodPost, http.MethodDelete}, methods)
}

func TestHTTPStore_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, nil, "database is locked")
	}))
	defer srv.Close()

	_, err := NewHTTPStore(srv.URL).Add(context.Background(), "user-1", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPStore(srv.URL).Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPStore_EmptyStationID(t *testing.T) {
	store := NewHTTPStore("http://127.0.0.1:1")

	_, err := store.Add(context.Background(), "user-1", "")
	require.ErrorIs(t, err, ErrInvalidStationID)
	_, err = store.Remove(context.Background(), "user-1", "")
	require.ErrorIs(t, err, ErrInvalidStationID)
}

func TestHTTPStore_ImplementsStore(t *testing.T) {
	var _ Store = NewHTTPStore("http://localhost")
}
