package aura

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auractl/internal/config"
)

func testCreds() config.Credentials {
	return config.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TenantID:     "tenant-1",
	}
}

// newTestServer returns a server that issues tokens and dispatches
// /v1/instances requests to handle. tokenCalls counts token requests.
func newTestServer(t *testing.T, tokenCalls *int, handle http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok, "token request must use basic auth")
		require.Equal(t, "client-id", user)
		require.Equal(t, "client-secret", pass)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.FormValue("grant_type"))
		if tokenCalls != nil {
			*tokenCalls++
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok-123", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/instances", handle)
	mux.HandleFunc("/v1/instances/", handle)
	return httptest.NewServer(mux)
}

func TestRealClient_CreateInstance(t *testing.T) {
	t.Parallel()
	var tokenCalls int
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "WS-1", payload["name"])
		assert.Equal(t, "tenant-1", payload["tenant_id"])
		assert.Equal(t, "2GB", payload["memory"])
		assert.NotContains(t, payload, "source_instance_id")

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{
			"id":             "db1",
			"status":         "creating",
			"connection_url": "neo4j+s://db1.databases.neo4j.io",
			"username":       "neo4j",
			"password":       "secret",
		}})
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	info, err := client.CreateInstance(context.Background(), InstanceCreateOpts{
		Name: "WS-1", Memory: "2GB", Region: "europe-west1", CloudProvider: "gcp", Type: "enterprise-db", Version: "5",
	})
	require.NoError(t, err)
	assert.Equal(t, "db1", info.ID)
	assert.Equal(t, StatusCreating, info.Status)
	assert.Equal(t, "secret", info.Password)
	assert.Equal(t, 1, tokenCalls)
}

func TestRealClient_CloneInstanceSetsSource(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "db1", payload["source_instance_id"])
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "db2", "status": "creating"}})
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	info, err := client.CloneInstance(context.Background(), "db1", InstanceCreateOpts{Name: "WS-2"})
	require.NoError(t, err)
	assert.Equal(t, "db2", info.ID)
}

func TestRealClient_CloneRequiresSource(t *testing.T) {
	t.Parallel()
	client := NewRealClient(testCreds())
	_, err := client.CloneInstance(context.Background(), "", InstanceCreateOpts{Name: "WS-2"})
	require.Error(t, err)
}

func TestRealClient_TokenReused(t *testing.T) {
	t.Parallel()
	var tokenCalls int
	srv := newTestServer(t, &tokenCalls, func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "db1", "status": "running"}})
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	for range 3 {
		_, err := client.GetInstance(context.Background(), "db1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, tokenCalls)
}

func TestRealClient_APIErrorParsed(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"errors":[{"message":"memory size not available","reason":"invalid-memory"}]}`)
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	_, err := client.CreateInstance(context.Background(), InstanceCreateOpts{Name: "WS-1"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "invalid-memory", apiErr.Reason)
	assert.False(t, IsTransient(err))
}

func TestRealClient_DeleteIdempotent(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors":[{"message":"instance not found","reason":"not-found"}]}`)
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	require.NoError(t, client.DeleteInstance(context.Background(), "db-gone"))
}

func TestRealClient_GetNotFound(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors":[{"message":"instance not found","reason":"not-found"}]}`)
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	_, err := client.GetInstance(context.Background(), "db-gone")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestRealClient_PauseInstance(t *testing.T) {
	t.Parallel()
	var paused string
	srv := newTestServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		paused = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"data":{"id":"db1","status":"pausing"}}`)
	})
	defer srv.Close()

	client := NewRealClient(testCreds(), WithBaseURL(srv.URL))
	require.NoError(t, client.PauseInstance(context.Background(), "db1"))
	assert.Equal(t, "/v1/instances/db1/pause", paused)
}
