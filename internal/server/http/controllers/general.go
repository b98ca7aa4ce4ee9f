package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rzbill/interticle/internal/runtime"
)

// GeneralController handles service-level endpoints.
type GeneralController struct {
	rt *runtime.Runtime
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime) *GeneralController {
	return &GeneralController{rt: rt}
}

// RegisterRoutes registers /healthz on the /v1 router.
func (c *GeneralController) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", c.handleHealth).Methods(http.MethodGet)
}

// handleHealth returns the health status of the service.
//
// Returns 200 OK with {"status": "ok"} plus generator identity and counters
// if healthy, 503 Service Unavailable otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_serving")
		return
	}
	gen := c.rt.Generator()
	writeJSON(w, map[string]any{
		"status":   "ok",
		"layout":   gen.Layout().String(),
		"originId": gen.Origin(),
		"epochMs":  gen.Epoch(),
		"stats":    c.rt.Stats().Snapshot(),
	})
}
