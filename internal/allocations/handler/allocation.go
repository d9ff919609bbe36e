package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fleetalloc/internal/allocations/service"
	apperrors "fleetalloc/pkg/errors"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AllocationHandler struct {
	service service.AllocationService
	log     *logger.Logger
}

func NewAllocationHandler(service service.AllocationService, log *logger.Logger) *AllocationHandler {
	return &AllocationHandler{
		service: service,
		log:     log,
	}
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input model.AllocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	allocation, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, allocation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *AllocationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	allocations, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, allocations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *AllocationHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := parseHistoryFilter(r)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	allocations, err := h.service.History(r.Context(), filter)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	if err := httputil.WriteSuccess(w, allocations); err != nil {
		h.log.Error("failed to write success response", "handler", "History", "error", err)
	}
}

func (h *AllocationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var input model.AllocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, &input)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AllocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/allocations", h.Create)
	router.GET("/api/v1/allocations", h.GetAll)
	router.GET("/api/v1/allocations/history", h.History)
	router.PUT("/api/v1/allocations/id/:id", h.Update)
	router.DELETE("/api/v1/allocations/id/:id", h.Delete)
}

func (h *AllocationHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}

func parseHistoryFilter(r *http.Request) (model.AllocationHistoryFilter, error) {
	query := r.URL.Query()
	var filter model.AllocationHistoryFilter

	if s := query.Get("employee_id"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid employee_id parameter: " + s)
		}
		filter.EmployeeID = &v
	}

	if s := query.Get("vehicle_id"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid vehicle_id parameter: " + s)
		}
		filter.VehicleID = &v
	}

	if s := query.Get("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid start_date format, must be RFC3339")
		}
		filter.StartDate = &t
	}

	if s := query.Get("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, apperrors.InvalidInput("invalid end_date format, must be RFC3339")
		}
		filter.EndDate = &t
	}

	return filter, nil
}
