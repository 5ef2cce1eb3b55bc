package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const identityHeader = "x-authenticated-user-email"

// Glossary is a single glossary entry as returned by the service.
type Glossary struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Revision   int       `json:"revision"`
	LikesCount int64     `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GlossaryGroup holds the entries whose terms share a first letter.
type GlossaryGroup struct {
	Letter     string      `json:"letter"`
	Glossaries []*Glossary `json:"glossaries"`
}

type Like struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryRecord struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	Definition string    `json:"definition"`
	Revision   int       `json:"revision"`
	Who        *string   `json:"who"`
	CreatedAt  time.Time `json:"created_at"`
}

type GlossaryInput struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type updateRequest struct {
	GlossaryInput
	Revision *int `json:"revision,omitempty"`
}

type listEnvelope[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("glossary: %s (status %d)", e.Message, e.Status)
}

type Option func(*Client)

// WithIdentity attaches the authenticated-user email header to every request.
func WithIdentity(email string) Option {
	return func(c *Client) {
		c.identity = email
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// Client is a typed JSON client for the glossary service.
type Client struct {
	base     string
	identity string
	http     *http.Client
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: baseURL,
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) CreateGlossary(ctx context.Context, in GlossaryInput) (*Glossary, error) {
	var out Glossary
	if err := c.do(ctx, http.MethodPost, "/api/v1/glossary", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetGlossary(ctx context.Context, id string) (*Glossary, error) {
	var out Glossary
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListGlossaries returns all entries grouped by first letter, plus the total
// entry count.
func (c *Client) ListGlossaries(ctx context.Context) ([]*GlossaryGroup, int, error) {
	var out listEnvelope[*GlossaryGroup]
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary", nil, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Results, out.Count, nil
}

// SearchGlossaries matches terms containing query. The count is the total
// number of matches, which may exceed len(results) when limit truncates.
func (c *Client) SearchGlossaries(ctx context.Context, query string, limit int) ([]*Glossary, int, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out listEnvelope[*Glossary]
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary-search", q, nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Results, out.Count, nil
}

func (c *Client) PopularGlossaries(ctx context.Context, limit int) ([]*Glossary, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out listEnvelope[*Glossary]
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary-popular", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// UpdateGlossary rewrites an entry. When revision is non-nil the update only
// applies if it matches the entry's current revision.
func (c *Client) UpdateGlossary(ctx context.Context, id string, in GlossaryInput, revision *int) (*Glossary, error) {
	var out Glossary
	req := updateRequest{GlossaryInput: in, Revision: revision}
	if err := c.do(ctx, http.MethodPut, "/api/v1/glossary/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGlossary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/glossary/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AddLike(ctx context.Context, id string) (*Like, error) {
	var out Like
	if err := c.do(ctx, http.MethodPost, "/api/v1/glossary/"+url.PathEscape(id)+"/likes", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RemoveLike(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/glossary/"+url.PathEscape(id)+"/likes", nil, nil, nil)
}

func (c *Client) ListLikes(ctx context.Context, id string) ([]*Like, error) {
	var out listEnvelope[*Like]
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary/"+url.PathEscape(id)+"/likes", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) ListHistory(ctx context.Context, id string) ([]*HistoryRecord, error) {
	var out listEnvelope[*HistoryRecord]
	if err := c.do(ctx, http.MethodGet, "/api/v1/glossary/"+url.PathEscape(id)+"/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/ping", nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return &APIError{Status: res.StatusCode, Message: "service unavailable"}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.identity != "" {
		req.Header.Set(identityHeader, c.identity)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e errorEnvelope
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = res.Status
		}
		return &APIError{Status: res.StatusCode, Message: e.Error}
	}

	if out == nil {
		io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
