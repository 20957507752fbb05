package update_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
	updateAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/update_appointment"
)

const (
	msgUnauthorized       = "Not authorized"
	msgInvalidRequestBody = "Invalid request body"
	msgNotFound           = "Appointment not found"
	msgForbidden          = "Not authorized to update this appointment"
)

type Handler struct {
	useCase UpdateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase UpdateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/appointments/{id}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PUT /appointments/{id} - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /appointments/{id} - Invalid request body: id=%s, error=%v", id, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(caller, id))
	if err != nil {
		var conflict *domain.SlotConflictError
		switch {
		case errors.Is(err, updateAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PUT /appointments/{id} - Appointment not found: id=%s", id)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, updateAppointment.ErrAccessDenied):
			h.logger.Warn("PUT /appointments/{id} - Access denied: id=%s, user_id=%s", id, caller.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.As(err, &conflict):
			h.logger.Warn("PUT /appointments/{id} - Slot conflict: id=%s, time=%s, reason=%s", id, conflict.Time, conflict.Reason)
			handlers.RespondBadRequest(w, conflict.Error())

		case errors.Is(err, updateAppointment.ErrInvalidInput):
			h.logger.Warn("PUT /appointments/{id} - Validation failed: id=%s, error=%v", id, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, updateAppointment.ErrInvalidInput))

		default:
			h.logger.Error("PUT /appointments/{id} - Failed to update appointment: id=%s, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /appointments/{id} - Appointment updated: id=%s, status=%s, user_id=%s", id, result.Status, caller.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainAppointment(result))
}
