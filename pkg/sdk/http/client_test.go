package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoRequest_HeadersAndParams(t *testing.T) {
	var got *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", WithBearerToken("secret-token"))
	resp, err := c.DoRequest(context.Background(), "post", "/v3/things", &RequestOptions{
		Params: map[string]any{"instruments": []string{"EUR_USD", "USD_JPY"}, "count": 3},
		Data:   []byte(`{"a":1}`),
	})
	require.NoError(t, err)
	require.NoError(t, CheckResponse(resp, err))

	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/v3/things", got.URL.Path)
	assert.Equal(t, "Bearer secret-token", got.Header.Get("Authorization"))
	assert.Equal(t, "RFC3339", got.Header.Get(HeaderDatetimeFormat))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "EUR_USD,USD_JPY", got.URL.Query().Get("instruments"))
	assert.Equal(t, "3", got.URL.Query().Get("count"))
	assert.JSONEq(t, `{"a":1}`, string(body))

	id := got.Header.Get(HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestID(resp))
}

func TestDoRequest_UnsupportedMethod(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	_, err := c.DoRequest(context.Background(), "TRACE", "/", nil)
	assert.Error(t, err)
}

func TestCheckResponse_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errorMessage":"nope"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.DoRequest(context.Background(), http.MethodGet, "/missing", nil)
	err = CheckResponse(resp, err)
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, string(se.Body), "nope")
}

func TestCheckResponse_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithTimeout(20*time.Millisecond))
	resp, err := c.DoRequest(context.Background(), http.MethodGet, "/slow", nil)
	err = CheckResponse(resp, err)
	require.Error(t, err)

	var se *StatusError
	assert.False(t, errors.As(err, &se))
}
