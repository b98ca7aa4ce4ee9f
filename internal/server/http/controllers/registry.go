package controllers

import (
	"github.com/gorilla/mux"
	"github.com/rzbill/interticle/internal/runtime"
	articlesvc "github.com/rzbill/interticle/internal/services/articles"
)

// ControllerRegistry manages all HTTP controllers.
type ControllerRegistry struct {
	general  *GeneralController
	ids      *IDsController
	articles *ArticlesController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *articlesvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt),
		ids:      NewIDsController(svc),
		articles: NewArticlesController(svc),
	}
}

// RegisterAllRoutes registers every controller on r, which is expected to be
// the /v1 subrouter.
func (r *ControllerRegistry) RegisterAllRoutes(router *mux.Router) {
	r.general.RegisterRoutes(router)
	r.ids.RegisterRoutes(router)
	r.articles.RegisterRoutes(router)
}
