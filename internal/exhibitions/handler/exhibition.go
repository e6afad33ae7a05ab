package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"galleria/internal/exhibitions/service"
	httputil "galleria/pkg/http"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

type ExhibitionHandler struct {
	service service.ExhibitionService
	log     *logger.Logger
}

func NewExhibitionHandler(service service.ExhibitionService, log *logger.Logger) *ExhibitionHandler {
	return &ExhibitionHandler{
		service: service,
		log:     log,
	}
}

func (h *ExhibitionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var exhibition model.Exhibition
	if err := httputil.DecodeJSONBody(r, &exhibition); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// The identifier is assigned on insert; a client-supplied one would
	// store a string _id that ObjectID lookups can never match.
	exhibition.ID = ""

	if err := h.service.Create(r.Context(), &exhibition); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, exhibition)
}

func (h *ExhibitionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	detail, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, detail)
}

func (h *ExhibitionHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	query := r.URL.Query()
	filter := model.ExhibitionFilter{
		Status:      query.Get("status"),
		CurrentOnly: query.Get("current") == "true",
	}

	exhibitions, total, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, exhibitions, total, limit, int(offset))
}

func (h *ExhibitionHandler) GetCurrent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	exhibitions, err := h.service.GetCurrent(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, exhibitions)
}

func (h *ExhibitionHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var updates model.ExhibitionUpdate
	if err := httputil.DecodeJSONBody(r, &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *ExhibitionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ExhibitionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/exhibitions", h.Create)
	router.GET("/api/v1/exhibitions", h.GetAll)
	router.GET("/api/v1/exhibitions/current", h.GetCurrent)
	router.GET("/api/v1/exhibitions/id/:id", h.GetByID)
	router.PUT("/api/v1/exhibitions/id/:id", h.Update)
	router.DELETE("/api/v1/exhibitions/id/:id", h.Delete)
}
