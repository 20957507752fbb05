package update_doctor_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-HospitalBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HospitalBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HospitalBookingService/internal/domain"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-HospitalBookingService/internal/service/slots"
)

const (
	msgUnauthorized       = "Not authorized"
	msgInvalidRequestBody = "Invalid request body"
	msgForbidden          = "Not authorized to manage this doctor's slots"
	msgBusy               = "Schedule is being changed right now. Please try again."
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/doctor-slots/{doctorId}/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	day := domain.DoctorDay{DoctorID: vars["doctorId"], Date: vars["date"]}

	caller, ok := middleware.GetCaller(r.Context())
	if !ok {
		h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Missing caller")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req UpdateDoctorSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	requested, err := req.Slots()
	if err != nil {
		h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Invalid availableSlots: doctor_id=%s, date=%s", day.DoctorID, day.Date)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	slot, err := h.service.SetAvailable(r.Context(), caller, day, requested, req.IsAvailable)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrAccessDenied):
			h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Access denied: doctor_id=%s, user_id=%s, role=%s",
				day.DoctorID, caller.ID, caller.Role)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Invalid request: %v", err)
			handlers.RespondBadRequest(w, handlers.ErrorDetail(err, slots.ErrInvalidInput))

		case errors.Is(err, slots.ErrBusy):
			h.logger.Warn("PUT /doctor-slots/{doctorId}/{date} - Schedule busy: doctor_id=%s, date=%s", day.DoctorID, day.Date)
			handlers.RespondError(w, http.StatusConflict, msgBusy)

		default:
			h.logger.Error("PUT /doctor-slots/{doctorId}/{date} - Failed to update slots: doctor_id=%s, date=%s, error=%v",
				day.DoctorID, day.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /doctor-slots/{doctorId}/{date} - Slots updated: doctor_id=%s, date=%s, available=%d, booked=%d",
		day.DoctorID, day.Date, len(slot.AvailableSlots), len(slot.BookedSlots))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainDoctorSlot(slot))
}
