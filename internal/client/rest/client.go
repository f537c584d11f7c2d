package rest

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/ffjson/ffjson"

	"usage-report-server/internal/api/common/errors"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 1 << 10

	TokenHeader = "X-Auth-Token"
)

type tokenKey struct{}

// WithToken makes requests issued with ctx authenticate as the caller instead
// of with the configured service token.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok
}

// Client issues JSON GET requests against one service endpoint.
type Client struct {
	service  string
	endpoint *url.URL
	token    string
	http     *http.Client
}

func NewClient(service, endpoint, token string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		service:  service,
		endpoint: u,
		token:    token,
		http:     httpClient,
	}, nil
}

func (c *Client) Service() string {
	return c.service
}

func (c *Client) URL(path string, params url.Values) string {
	u := *c.endpoint
	u.Path = u.Path + "/" + strings.TrimPrefix(path, "/")
	if params != nil {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	target := c.URL(path, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if token, ok := tokenFrom(ctx); ok {
		req.Header.Set(TokenHeader, token)
	} else if c.token != "" {
		req.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.ServiceErr(c.service, http.MethodGet, target, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return ffjson.Unmarshal(body, out)
}
