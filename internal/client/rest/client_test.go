package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usage-report-server/internal/api/common/errors"
)

func TestGetDecodesAndSendsToken(t *testing.T) {
	var gotToken, gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(TokenHeader)
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer server.Close()

	c, err := NewClient("compute", server.URL+"/v2.1/", "service-token", server.Client())
	require.NoError(t, err)

	out := &struct {
		Value int `json:"value"`
	}{}
	require.NoError(t, c.Get(context.Background(), "/limits", url.Values{"a": []string{"b"}}, out))

	assert.Equal(t, 42, out.Value)
	assert.Equal(t, "service-token", gotToken)
	assert.Equal(t, "/v2.1/limits", gotPath)
	assert.Equal(t, "a=b", gotQuery)
}

func TestGetPrefersCallerToken(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(TokenHeader)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c, err := NewClient("compute", server.URL, "service-token", nil)
	require.NoError(t, err)

	ctx := WithToken(context.Background(), "user-token")
	require.NoError(t, c.Get(ctx, "x", nil, &struct{}{}))
	assert.Equal(t, "user-token", gotToken)
}

func TestGetReturnsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down for maintenance\n"))
	}))
	defer server.Close()

	c, err := NewClient("network", server.URL, "", nil)
	require.NoError(t, err)

	err = c.Get(context.Background(), "/v2.0/floatingips", nil, &struct{}{})
	require.Error(t, err)

	serviceErr, ok := err.(errors.ServiceError)
	require.True(t, ok)
	assert.Equal(t, "network", serviceErr.Service)
	assert.Equal(t, http.StatusServiceUnavailable, serviceErr.StatusCode)
	assert.Equal(t, "down for maintenance", serviceErr.Body)
}
