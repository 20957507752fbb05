package delete_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	deleteAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/delete_appointment"
)

const (
	msgUnauthorized = "Not authorized"
	msgNotFound     = "Appointment not found"
	msgForbidden    = "Not authorized to delete this appointment"
	msgBusy         = "Appointment is being changed right now. Please try again."
	msgDeleted      = "Appointment deleted successfully"
)

type Handler struct {
	useCase DeleteAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase DeleteAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("DELETE /appointments/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	err := h.useCase.Execute(r.Context(), &deleteAppointment.Request{Caller: caller, ID: id})
	if err != nil {
		switch {
		case errors.Is(err, deleteAppointment.ErrAppointmentNotFound):
			h.logger.Warn("DELETE /appointments/{id} - Appointment not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, deleteAppointment.ErrAccessDenied):
			h.logger.Warn("DELETE /appointments/{id} - Access denied: id=%s, user_id=%s", id, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, deleteAppointment.ErrBusy):
			h.logger.Warn("DELETE /appointments/{id} - Appointment busy: id=%s", id)
			handlers.RespondError(w, http.StatusConflict, msgBusy)

		case errors.Is(err, deleteAppointment.ErrInvalidInput):
			h.logger.Warn("DELETE /appointments/{id} - Invalid request: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, deleteAppointment.ErrInvalidInput))

		default:
			h.logger.Error("DELETE /appointments/{id} - Failed to delete appointment: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /appointments/{id} - Appointment deleted: id=%s, user_id=%s", id, caller.ID)
	handlers.RespondMessage(w, http.StatusOK, msgDeleted)
}
