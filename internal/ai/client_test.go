package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(Config{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"}, nil)
	c.httpClient = srv.Client()
	return c
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"content":"  Here is your plan.  \n"}}]}`))
	})

	reply, err := c.Complete(context.Background(), Request{System: "persona", User: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Here is your plan.", reply)

	assert.Equal(t, "test-model", got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	assert.Equal(t, 0.9, got.TopP)
	assert.Equal(t, 800, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatMessage{Role: "system", Content: "persona"}, got.Messages[0])
	assert.Equal(t, chatMessage{Role: "user", Content: "hello"}, got.Messages[1])
}

func TestCompleteNon2xxIsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := c.Complete(context.Background(), Request{User: "hi"})
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Error(), "500")
}

func TestCompleteShapeMismatch(t *testing.T) {
	cases := map[string]string{
		"no choices":     `{"choices":[]}`,
		"no message":     `{"choices":[{}]}`,
		"null content":   `{"choices":[{"message":{"content":null}}]}`,
		"blank content":  `{"choices":[{"message":{"content":"   "}}]}`,
		"missing fields": `{}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})
			_, err := c.Complete(context.Background(), Request{User: "hi"})
			assert.ErrorIs(t, err, ErrEmptyCompletion)
		})
	}
}

func TestCompleteMalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := c.Complete(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse response"))
}

func TestCompleteWithoutKeyMakesNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(Config{Endpoint: srv.URL}, nil)
	_, err := c.Complete(context.Background(), Request{User: "hi"})
	assert.ErrorIs(t, err, ErrNoAPIKey)
	assert.False(t, called)
}

func TestCompleteHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{APIKey: "k", Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	c.httpClient = srv.Client()

	_, err := c.Complete(context.Background(), Request{User: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{APIKey: "k"}, nil)
	assert.Equal(t, GroqEndpoint, c.endpoint)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(_ context.Context, req Request) (string, error) {
		return "echo: " + req.User, nil
	})
	reply, err := c.Complete(context.Background(), Request{User: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "echo: ping", reply)
}
