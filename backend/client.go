// Package backend is the HTTP client for the viewer API: login, entry link
// verification, session verification and share link resolution.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-viewer-session/tenants"
)

// Endpoint paths relative to the API base URL.
const (
	PathLogin        = "/login"
	PathVerify       = "/verify"
	PathEntry        = "/hospital/entry"
	PathShareStudy   = "/share/study"
	entryLabelParam  = "label"
	contentTypeJSON  = "application/json"
	maxResponseBytes = 1 << 20
)

// Client talks to the viewer API. It holds no credentials of its own; every
// authenticated call receives its token from the caller.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a per-request timeout. Zero leaves transport defaults.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...ClientOption) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("[backend.New] base URL is required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("[backend.New] invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("[backend.New] base URL must be http or https, got %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{},
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	// path may carry escaped segments (share tokens), so build the raw form.
	rawPath := strings.TrimRight(u.EscapedPath(), "/") + path
	if unescaped, err := url.PathUnescape(rawPath); err == nil {
		u.Path, u.RawPath = unescaped, rawPath
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// bearerClient returns an http.Client that adds "Authorization: Bearer"
// from ts on every request. oauth2.Transport is used directly so the token
// is fetched per request instead of cached.
func (c *Client) bearerClient(ts oauth2.TokenSource) *http.Client {
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc := *c.httpClient
	hc.Transport = &oauth2.Transport{Source: ts, Base: base}
	return &hc
}

func staticToken(token string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
}

// Login posts the credentials and decodes the token and user.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body, err := json.Marshal(LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}
	resp, err := c.do(ctx, c.httpClient, http.MethodPost, PathLogin, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" || out.User == nil {
		return nil, fmt.Errorf("%w: login response without token or user", ErrMalformedResponse)
	}
	return &out, nil
}

// VerifyEntry checks an inbound entry link token for label.
func (c *Client) VerifyEntry(ctx context.Context, label tenants.Label, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	query := url.Values{entryLabelParam: []string{label.String()}}
	resp, err := c.do(ctx, c.bearerClient(staticToken(token)), http.MethodPost, PathEntry, query, nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// VerifySession checks that token is still a valid session.
func (c *Client) VerifySession(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingToken
	}
	resp, err := c.do(ctx, c.bearerClient(staticToken(token)), http.MethodGet, PathVerify, nil, nil)
	if err != nil {
		return err
	}
	return drain(resp)
}

// ResolveShare resolves a guest share token. The token is the capability
// and travels in the path; no Authorization header is sent.
func (c *Client) ResolveShare(ctx context.Context, token string) (*ShareResolution, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	resp, err := c.do(ctx, c.httpClient, http.MethodGet, PathShareStudy+"/"+url.PathEscape(token), nil, nil)
	if err != nil {
		return nil, err
	}
	var out ShareResolution
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.StudyID == "" || out.HospitalLabel == "" {
		return nil, fmt.Errorf("%w: share resolution without study_id or hospital_label", ErrMalformedResponse)
	}
	return &out, nil
}

// CreateShareLink asks the backend for a guest link to a study. The caller
// supplies the token source, normally credentials.Store.TokenSource.
func (c *Client) CreateShareLink(ctx context.Context, ts oauth2.TokenSource, req ShareLinkRequest) (*ShareLink, error) {
	if req.StudyID == "" || req.SharedToEmail == "" || req.ShareType == "" || req.Duration == "" {
		return nil, fmt.Errorf("[CreateShareLink] study, email, share type and duration are required")
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode share request: %w", err)
	}
	resp, err := c.do(ctx, c.bearerClient(ts), http.MethodPost, PathShareStudy, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out ShareLink
	if err := decodeJSON(resp, &out); err != nil {
		return nil, err
	}
	if out.Link == "" {
		return nil, fmt.Errorf("%w: share response without link", ErrMalformedResponse)
	}
	return &out, nil
}

// LabelSource returns the tenant label to attach to outbound requests.
type LabelSource func(ctx context.Context) (tenants.Label, error)

// AuthorizedClient returns an http.Client for collaborators outside the
// session layer (report editing, the image archive). Every request carries
// the current bearer token and, when labels is set, the tenant label header.
func (c *Client) AuthorizedClient(ts oauth2.TokenSource, labels LabelSource) *http.Client {
	hc := c.bearerClient(ts)
	if labels != nil {
		hc.Transport = &labelTransport{base: hc.Transport, labels: labels}
	}
	return hc
}

type labelTransport struct {
	base   http.RoundTripper
	labels LabelSource
}

func (t *labelTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	label, err := t.labels(req.Context())
	if err != nil || label == "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set(tenants.HeaderName, label.String())
	return t.base.RoundTrip(clone)
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, body io.Reader) (*http.Response, error) {
	endpoint := c.endpoint(path, query)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = drain(resp)
		log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("Backend rejected request")
		return nil, &StatusError{Method: method, Endpoint: path, StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// decodeJSON reads the body as text first; the share endpoint does not
// promise a JSON content type.
func decodeJSON(resp *http.Response, out any) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func drain(resp *http.Response) error {
	defer resp.Body.Close()
	_, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	return err
}
