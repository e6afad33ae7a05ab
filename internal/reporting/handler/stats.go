package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"galleria/internal/reporting/service"
	httputil "galleria/pkg/http"
	"galleria/pkg/logger"
)

type StatsHandler struct {
	service service.StatsService
	log     *logger.Logger
}

func NewStatsHandler(service service.StatsService, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log,
	}
}

func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, summary)
}

func (h *StatsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/stats/summary", h.Summary)
}
