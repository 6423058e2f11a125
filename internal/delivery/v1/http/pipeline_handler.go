package http

import (
	"net/http"
	"time"

	"github.com/DRSN-tech/eshop-etl/internal/usecase"
	"github.com/DRSN-tech/eshop-etl/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type PipelineHandler struct {
	pipelineUC usecase.PipelineUC
	logger     logger.Logger
}

func NewPipelineHandler(pipelineUC usecase.PipelineUC, logger logger.Logger) *PipelineHandler {
	return &PipelineHandler{pipelineUC: pipelineUC, logger: logger}
}

type runResponse struct {
	ID         string               `json:"id"`
	Status     string               `json:"status"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
	Error      string               `json:"error,omitempty"`
	Reports    []usecase.LoadReport `json:"reports,omitempty"`
}

func toRunResponse(run *usecase.RunInfo) runResponse {
	return runResponse{
		ID:         run.ID,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Err,
		Reports:    run.Reports,
	}
}

// startRun запускает батч конвейера в фоне и сразу возвращает идентификатор
// запуска.
func (p *PipelineHandler) startRun(w http.ResponseWriter, r *http.Request) {
	run, err := p.pipelineUC.StartRun(r.Context())
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusAccepted, toRunResponse(run))
}

// getRun возвращает состояние запуска и отчёты уже загруженных наборов.
func (p *PipelineHandler) getRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := p.pipelineUC.GetRun(r.Context(), id)
	if err != nil {
		p.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toRunResponse(run))
}
