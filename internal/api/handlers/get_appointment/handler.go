package get_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments"
)

const (
	msgUnauthorized = "Not authorized"
	msgNotFound     = "Appointment not found"
	msgForbidden    = "Not authorized to access this appointment"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointment, err := h.service.GetByID(r.Context(), caller, id)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /appointments/{id} - Access denied: id=%s, user_id=%s", id, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved: id=%s, user_id=%s", id, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, appointment)
}
