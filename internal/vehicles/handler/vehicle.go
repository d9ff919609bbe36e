package handler

import (
	"net/http"

	"fleetalloc/internal/vehicles/service"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type VehicleHandler struct {
	service service.VehicleService
	log     *logger.Logger
}

func NewVehicleHandler(service service.VehicleService, log *logger.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log,
	}
}

func (h *VehicleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	allocated, err := httputil.ExtractBoolFlag(r, "allocated")
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	vehicles, total, err := h.service.List(r.Context(), allocated, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, vehicles, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *VehicleHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/vehicles", h.GetAll)
}

func (h *VehicleHandler) writeError(w http.ResponseWriter, operation string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", operation, "error", writeErr)
	}
}
