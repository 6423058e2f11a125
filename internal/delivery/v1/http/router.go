package http

import (
	"net/http"

	"github.com/DRSN-tech/eshop-etl/internal/usecase"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(pipelineUC usecase.PipelineUC) {
	r.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		handler := NewPipelineHandler(pipelineUC, r.logger)
		registerPipelineRoutes(v1, handler)
	})
}

func registerPipelineRoutes(router chi.Router, handler *PipelineHandler) {
	router.Route("/pipeline", func(p chi.Router) {
		p.Post("/runs", handler.startRun)
		p.Get("/runs/{id}", handler.getRun)
	})
}
