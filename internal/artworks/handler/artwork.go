package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"galleria/internal/artworks/service"
	httputil "galleria/pkg/http"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

type ArtworkHandler struct {
	service service.ArtworkService
	log     *logger.Logger
}

func NewArtworkHandler(service service.ArtworkService, log *logger.Logger) *ArtworkHandler {
	return &ArtworkHandler{
		service: service,
		log:     log,
	}
}

func (h *ArtworkHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var artwork model.Artwork
	if err := httputil.DecodeJSONBody(r, &artwork); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Assigned on insert; a client-supplied id would store an unmatchable
	// string _id.
	artwork.ID = ""

	if err := h.service.Create(r.Context(), &artwork); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, artwork)
}

func (h *ArtworkHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	artwork, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, artwork)
}

func (h *ArtworkHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	artworks, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, artworks, total, limit, int(offset))
}

func (h *ArtworkHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ArtworkUpdate
	if err := httputil.DecodeJSONBody(r, &updates); err != nil {
		httputil.WriteError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, updated)
}

func (h *ArtworkHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ArtworkHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/artworks", h.Create)
	router.GET("/api/v1/artworks", h.GetAll)
	router.GET("/api/v1/artworks/id/:id", h.GetByID)
	router.PUT("/api/v1/artworks/id/:id", h.Update)
	router.DELETE("/api/v1/artworks/id/:id", h.Delete)
}
