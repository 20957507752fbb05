package list_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
)

const (
	msgUnauthorized  = "Not authorized"
	msgInvalidFilter = "Invalid filter: status must be pending, confirmed, completed or cancelled and date must be YYYY-MM-DD"
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

// Handle GET /api/appointments?email=&doctorId=&status=&date=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	req := &models.ListAppointmentsRequest{
		Email:    optional(query.Get("email")),
		DoctorID: optional(query.Get("doctorId")),
		Status:   optional(query.Get("status")),
		Date:     optional(query.Get("date")),
	}

	result, err := h.service.List(r.Context(), caller, req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: user_id=%s, error=%v", caller.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Listed %d appointments: user_id=%s, role=%s",
		len(result.Appointments), caller.ID, caller.Role)
	handlers.RespondList(w, result.Appointments, len(result.Appointments))
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
