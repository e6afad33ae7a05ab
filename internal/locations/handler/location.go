package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"galleria/internal/locations/service"
	"galleria/pkg/dates"
	apperrors "galleria/pkg/errors"
	httputil "galleria/pkg/http"
	"galleria/pkg/logger"
	"galleria/pkg/model"
)

// ScheduleReader answers availability probes and month schedules for a
// location. Implemented by the exhibitions service.
type ScheduleReader interface {
	CheckAvailability(ctx context.Context, locationID string, start, end dates.Date, excludeID string) (*model.Availability, error)
	GetLocationSchedule(ctx context.Context, locationID string, year, month int) ([]*model.Exhibition, error)
}

type LocationHandler struct {
	service   service.LocationService
	schedules ScheduleReader
	log       *logger.Logger
}

func NewLocationHandler(service service.LocationService, schedules ScheduleReader, log *logger.Logger) *LocationHandler {
	return &LocationHandler{
		service:   service,
		schedules: schedules,
		log:       log,
	}
}

func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var location model.Location
	if err := httputil.DecodeJSONBody(r, &location); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Assigned on insert; a client-supplied id would store an unmatchable
	// string _id.
	location.ID = ""

	if err := h.service.Create(r.Context(), &location); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, location)
}

func (h *LocationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	location, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, location)
}

func (h *LocationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	locations, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, locations, total, limit, int(offset))
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.LocationUpdate
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

func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// CheckAvailability answers whether [start_date, end_date] is free at this
// location, with the count of conflicting exhibitions.
func (h *LocationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	start, err := dates.Parse(query.Get("start_date"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("start_date must be a calendar date in YYYY-MM-DD format"))
		return
	}
	end, err := dates.Parse(query.Get("end_date"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("end_date must be a calendar date in YYYY-MM-DD format"))
		return
	}

	excludeID := query.Get("exclude_exhibition_id")

	availability, err := h.schedules.CheckAvailability(r.Context(), ps.ByName("id"), start, end, excludeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

// GetSchedule lists every exhibition touching the requested calendar month
// at this location.
func (h *LocationHandler) GetSchedule(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("year must be an integer"))
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("month must be an integer between 1 and 12"))
		return
	}

	schedule, err := h.schedules.GetLocationSchedule(r.Context(), ps.ByName("id"), year, month)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, schedule)
}

func (h *LocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/locations", h.Create)
	router.GET("/api/v1/locations", h.GetAll)
	router.GET("/api/v1/locations/id/:id", h.GetByID)
	router.PUT("/api/v1/locations/id/:id", h.Update)
	router.DELETE("/api/v1/locations/id/:id", h.Delete)
	router.GET("/api/v1/locations/id/:id/availability", h.CheckAvailability)
	router.GET("/api/v1/locations/id/:id/schedule", h.GetSchedule)
}
