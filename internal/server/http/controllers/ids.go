package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
	"github.com/rzbill/interticle/pkg/snowflake"
)

// IDsController mints and decodes ids.
type IDsController struct {
	svc *articlesvc.Service
}

// NewIDsController creates a new ids controller.
func NewIDsController(svc *articlesvc.Service) *IDsController {
	return &IDsController{svc: svc}
}

// RegisterRoutes registers id routes on the /v1 router.
func (c *IDsController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/ids", c.handleMint).Methods(http.MethodPost)
	r.HandleFunc("/ids/{id}", c.handleDecode).Methods(http.MethodGet)
}

// handleMint returns {"id": "<decimal>"}.
func (c *IDsController) handleMint(w http.ResponseWriter, r *http.Request) {
	id, err := c.svc.MintID(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, map[string]snowflake.ID{"id": id})
}

// handleDecode decodes {id}, read in the radix given by ?radix (default 10).
func (c *IDsController) handleDecode(w http.ResponseWriter, r *http.Request) {
	radix := 10
	if s := r.URL.Query().Get("radix"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "radix must be an integer")
			return
		}
		radix = n
	}
	id, err := snowflake.FromString(mux.Vars(r)["id"], radix)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, c.svc.Describe(id))
}
