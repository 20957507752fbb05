package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
	bookAppointment "github.com/m04kA/SMC-HospitalBookingService/internal/usecase/book_appointment"
)

const (
	msgUnauthorized       = "Not authorized"
	msgInvalidRequestBody = "Invalid request body"
	msgDoctorNotFound     = "Doctor not found"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(caller))
	if err != nil {
		var conflict *domain.SlotConflictError
		switch {
		case errors.As(err, &conflict):
			// Сообщение с временем слота клиент показывает пользователю
			h.logger.Warn("POST /appointments - Slot conflict: doctor_id=%s, date=%s, time=%s, reason=%s",
				req.DoctorID, req.Date, req.Time, conflict.Reason)
			handlers.RespondBadRequest(w, conflict.Error())

		case errors.Is(err, bookAppointment.ErrDoctorNotFound):
			h.logger.Warn("POST /appointments - Doctor not found: doctor_id=%s", req.DoctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Validation failed: user_id=%s, error=%v", caller.ID, err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, bookAppointment.ErrInvalidInput))

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: user_id=%s, doctor_id=%s, error=%v",
				caller.ID, req.DoctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: id=%s, user_id=%s, doctor_id=%s",
		result.ID, caller.ID, result.DoctorID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainAppointment(result))
}
