package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	cfgpkg "github.com/rzbill/interticle/internal/config"
	"github.com/rzbill/interticle/internal/record"
	"github.com/rzbill/interticle/internal/runtime"
	logpkg "github.com/rzbill/interticle/pkg/log"
	"github.com/rzbill/interticle/pkg/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct{ now atomic.Int64 }

func (c *testClock) tick() int64 { return c.now.Add(1) }

func newTestServer(t *testing.T) (*Server, *testClock) {
	t.Helper()
	cfg := cfgpkg.Default()
	cfg.DataDir = t.TempDir()
	cfg.OriginID = 5
	cfg.Fsync = "never"
	clock := &testClock{}
	clock.now.Store(snowflake.Epoch + 100)
	rt, err := runtime.Open(runtime.Options{Config: cfg, Clock: func() int64 { return clock.now.Load() }})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	logger, _ := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text"})
	return New(rt, logger), clock
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "origin", body["layout"])
	assert.EqualValues(t, 5, body["originId"])
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/v1/healthz", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("X-Request-ID", "6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodOptions, "/v1/ids", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMintAndDecodeID(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodPost, "/v1/ids", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var minted struct {
		ID snowflake.ID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &minted))
	assert.Contains(t, w.Body.String(), `"id":"`)
	assert.Equal(t, uint16(5), minted.ID.OriginID())
	assert.Equal(t, uint64(100), minted.ID.TimestampOffset())

	bin, err := minted.ID.Serialize(2)
	require.NoError(t, err)
	w = do(t, s, http.MethodGet, "/v1/ids/"+bin+"?radix=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, minted.ID.String(), info["id"])
	assert.EqualValues(t, snowflake.Epoch+100, info["timestampMs"])
	assert.EqualValues(t, 5, info["originId"])
}

func TestDecodeIDErrors(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/ids/123?radix=7", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/ids/12a", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/ids/1?radix=x", "").Code)
}

func TestMintClockRegression(t *testing.T) {
	s, clock := newTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/v1/ids", "").Code)
	clock.now.Add(-1500)
	w := do(t, s, http.MethodPost, "/v1/ids", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
}

func TestAuthorAndArticleFlow(t *testing.T) {
	s, clock := newTestServer(t)

	w := do(t, s, http.MethodPost, "/v1/authors", `{"name":"ada"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	au, err := record.ParseAuthor(w.Body.Bytes())
	require.NoError(t, err)

	w = do(t, s, http.MethodGet, "/v1/authors/"+au.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var articles []record.Article
	for _, title := range []string{"Go one", "Rust", "Go two"} {
		clock.tick()
		w = do(t, s, http.MethodPost, "/v1/articles", `{"title":"`+title+`","author_id":"`+au.ID.String()+`"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		a, err := record.ParseArticle(w.Body.Bytes())
		require.NoError(t, err)
		articles = append(articles, a)
	}

	w = do(t, s, http.MethodGet, "/v1/articles/"+articles[1].ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	got, err := record.ParseArticle(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, articles[1], got)

	w = do(t, s, http.MethodGet, `/v1/articles?filter=title.startsWith(%22Go%22)`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Articles []record.Article `json:"articles"`
		Next     snowflake.ID     `json:"next"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Articles, 2)
	assert.Equal(t, articles[0].ID, page.Articles[0].ID)
	assert.Equal(t, articles[2].ID, page.Articles[1].ID)

	w = do(t, s, http.MethodGet, "/v1/articles?limit=1&reverse=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	page.Articles, page.Next = nil, 0
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Articles, 1)
	assert.Equal(t, articles[2].ID, page.Articles[0].ID)
	assert.Equal(t, articles[2].ID, page.Next)

	w = do(t, s, http.MethodGet, "/v1/articles?after="+page.Next.String()+"&reverse=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	page.Articles, page.Next = nil, 0
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Articles, 2)
}

func TestArticleErrors(t *testing.T) {
	s, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/v1/articles", `{"title":"x","author_id":"1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/v1/articles", `{"title":"x","author_id":"abc"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/v1/authors", `{"name":"x","extra":1}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/articles/42", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/v1/authors/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/v1/articles?filter=title%20%2B", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodDelete, "/v1/articles/42", "").Code)
}

func TestImportArticle(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"article":{"id":"1732546465218199552","title":"remote","author_id":1732546465218199551,"origin_url":"https://b.example"},` +
		`"author":{"id":"1732546465218199551","name":"bob","origin_url":"https://b.example"}}`

	w := do(t, s, http.MethodPost, "/v1/articles/import", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	a, err := record.ParseArticle(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(1732546465218199552), a.ID)
	assert.Contains(t, w.Body.String(), `"author_id":"1732546465218199551"`)

	w = do(t, s, http.MethodPost, "/v1/articles/import", body)
	assert.Equal(t, http.StatusOK, w.Code)

	conflict := strings.Replace(body, `"title":"remote"`, `"title":"changed"`, 1)
	w = do(t, s, http.MethodPost, "/v1/articles/import", conflict)
	assert.Equal(t, http.StatusConflict, w.Code)
}
