package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rzbill/interticle/internal/record"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// ArticlesController handles author and article endpoints.
//
// Ids travel as decimal strings in both directions; bare JSON numbers are
// accepted inbound.
type ArticlesController struct {
	svc *articlesvc.Service
}

// NewArticlesController creates a new articles controller.
func NewArticlesController(svc *articlesvc.Service) *ArticlesController {
	return &ArticlesController{svc: svc}
}

// RegisterRoutes registers author and article routes on the /v1 router.
func (c *ArticlesController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/authors", c.handleCreateAuthor).Methods(http.MethodPost)
	r.HandleFunc("/authors/{id}", c.handleGetAuthor).Methods(http.MethodGet)

	r.HandleFunc("/articles", c.handlePublish).Methods(http.MethodPost)
	r.HandleFunc("/articles", c.handleList).Methods(http.MethodGet)
	r.HandleFunc("/articles/import", c.handleImport).Methods(http.MethodPost)
	r.HandleFunc("/articles/{id}", c.handleGetArticle).Methods(http.MethodGet)
}

type createAuthorReq struct {
	Name      string `json:"name"`
	OriginURL string `json:"origin_url"`
}

func (c *ArticlesController) handleCreateAuthor(w http.ResponseWriter, r *http.Request) {
	var req createAuthorReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	au, err := c.svc.CreateAuthor(r.Context(), req.Name, req.OriginURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, au)
}

func (c *ArticlesController) handleGetAuthor(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	au, err := c.svc.GetAuthor(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, au)
}

type publishReq struct {
	Title     string       `json:"title"`
	AuthorID  snowflake.ID `json:"author_id"`
	OriginURL string       `json:"origin_url"`
}

func (c *ArticlesController) handlePublish(w http.ResponseWriter, r *http.Request) {
	var req publishReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	a, err := c.svc.PublishArticle(r.Context(), req.Title, req.AuthorID, req.OriginURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, a)
}

type importReq struct {
	Article record.Article `json:"article"`
	Author  *record.Author `json:"author,omitempty"`
}

// handleImport stores an article minted elsewhere. Identical re-imports
// return 200; new imports 201.
func (c *ArticlesController) handleImport(w http.ResponseWriter, r *http.Request) {
	var req importReq
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	_, getErr := c.svc.GetArticle(r.Context(), req.Article.ID)
	a, err := c.svc.ImportArticle(r.Context(), req.Article, req.Author)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if getErr == nil {
		writeJSON(w, a)
		return
	}
	writeCreated(w, a)
}

func (c *ArticlesController) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	a, err := c.svc.GetArticle(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, a)
}

// handleList pages articles. Query: filter (CEL), limit, after (id cursor),
// reverse.
func (c *ArticlesController) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := articlesvc.ListOptions{
		Limit:   parseLimit(q.Get("limit")),
		Reverse: parseBool(q.Get("reverse")),
		Filter:  q.Get("filter"),
	}
	if s := q.Get("after"); s != "" {
		after, err := snowflake.Parse(s)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		opts.After = after
	}
	page, err := c.svc.ListArticles(r.Context(), opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, page)
}
