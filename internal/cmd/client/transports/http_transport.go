package transports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rzbill/interticle/internal/record"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// HTTPTransport implements ArticlesTransport against the /v1 REST API.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

// NewHTTPTransport returns a transport for baseURL (e.g. http://127.0.0.1:8080).
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// do sends body (encoded with record.EncodePayload) and decodes the response
// with record.DecodePayload.
func (t *HTTPTransport) do(ctx context.Context, method, path string, body map[string]any) (map[string]any, error) {
	var rd io.Reader
	if body != nil {
		b, err := record.EncodePayload(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	out, decErr := record.DecodePayload(raw)
	if resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if m, ok := out["error"].(string); ok {
			msg = m
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decErr != nil {
		return nil, decErr
	}
	return out, nil
}

// CreateAuthor creates an author.
func (t *HTTPTransport) CreateAuthor(ctx context.Context, name, originURL string) (map[string]any, error) {
	body := map[string]any{"name": name}
	if originURL != "" {
		body["origin_url"] = originURL
	}
	return t.do(ctx, http.MethodPost, "/v1/authors", body)
}

// GetAuthor fetches an author.
func (t *HTTPTransport) GetAuthor(ctx context.Context, id snowflake.ID) (map[string]any, error) {
	return t.do(ctx, http.MethodGet, "/v1/authors/"+id.String(), nil)
}

// PublishArticle publishes an article by authorID.
func (t *HTTPTransport) PublishArticle(ctx context.Context, title string, authorID snowflake.ID, originURL string) (map[string]any, error) {
	body := map[string]any{"title": title, "author_id": authorID}
	if originURL != "" {
		body["origin_url"] = originURL
	}
	return t.do(ctx, http.MethodPost, "/v1/articles", body)
}

// GetArticle fetches an article.
func (t *HTTPTransport) GetArticle(ctx context.Context, id snowflake.ID) (map[string]any, error) {
	return t.do(ctx, http.MethodGet, "/v1/articles/"+id.String(), nil)
}

// ListArticles fetches one page of articles.
func (t *HTTPTransport) ListArticles(ctx context.Context, req ListRequest) (map[string]any, error) {
	q := url.Values{}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.After != 0 {
		q.Set("after", req.After.String())
	}
	if req.Reverse {
		q.Set("reverse", "true")
	}
	path := "/v1/articles"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return t.do(ctx, http.MethodGet, path, nil)
}
