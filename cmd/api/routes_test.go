package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"productivity-assistant/internal/app"
	"productivity-assistant/internal/auth"
	"productivity-assistant/internal/config"
)

const testSecret = "route-test-secret"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = "none"
	cfg.Storage.Driver = "memory"
	cfg.Server.JWTSecret = testSecret

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(newRouter(a))
	t.Cleanup(func() {
		srv.Close()
		assert.NoError(t, a.Close())
	})
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body, user string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if user != "" {
		tok, err := auth.GenerateToken([]byte(testSecret), user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	resp := call(t, srv, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/assistant/message"},
		{http.MethodGet, "/tasks"},
		{http.MethodGet, "/stats"},
		{http.MethodGet, "/profile"},
		{http.MethodDelete, "/account"},
	} {
		resp := call(t, srv, route.method, route.path, "{}", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, route.path)
	}
}

func TestMessageFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/assistant/message", `{"message":"add task book flights"}`, "ana")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply struct {
		Reply    string `json:"reply"`
		Fallback bool   `json:"fallback"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.NotEmpty(t, reply.Reply)
	assert.True(t, reply.Fallback, "no completion backend is configured")

	resp = call(t, srv, http.MethodGet, "/tasks", "", "ana")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Tasks, 3)
	assert.Equal(t, "book flights", list.Tasks[2].Title)

	// Sessions are per user.
	resp = call(t, srv, http.MethodGet, "/tasks", "", "ben")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Tasks, 2)

	resp = call(t, srv, http.MethodGet, "/assistant/history", "", "ana")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteAccountResetsSession(t *testing.T) {
	srv := newTestServer(t)

	call(t, srv, http.MethodPost, "/assistant/message", `{"message":"add task pay rent"}`, "cy")
	resp := call(t, srv, http.MethodDelete, "/account", "", "cy")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, srv, http.MethodGet, "/tasks", "", "cy")
	var list struct {
		Tasks []json.RawMessage `json:"tasks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Tasks, 2, "a wiped account starts from the seed tasks")
}

func TestMeEchoesUser(t *testing.T) {
	srv := newTestServer(t)
	resp := call(t, srv, http.MethodGet, "/auth/me", "", "dee")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "dee", out["user_id"])
}
