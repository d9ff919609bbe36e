package handler

import (
	"net/http"

	"fleetalloc/internal/employees/service"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type EmployeeHandler struct {
	service service.EmployeeService
	log     *logger.Logger
}

func NewEmployeeHandler(service service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		log:     log,
	}
}

func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	includeAllocations, err := httputil.ExtractBoolFlag(r, "include_allocations")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	employees, total, err := h.service.List(r.Context(), includeAllocations, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, employees, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *EmployeeHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/employees", h.GetAll)
}

func (h *EmployeeHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}
